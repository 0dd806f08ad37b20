package kube

import (
	"context"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

func GetClusterRoleBindingDetails(ctx context.Context, c *cluster.Clients, name string) (*dto.ClusterRoleBindingDetailsDTO, error) {
	v, err := GetClusterRoleBinding(ctx, c, name)
	if err != nil {
		return nil, err
	}
	return DescribeClusterRoleBinding(v)
}

func DescribeClusterRoleBinding(v view.ClusterRoleBindingView) (*dto.ClusterRoleBindingDetailsDTO, error) {
	rb := v.K8sObj()
	if rb == nil {
		return nil, errNoObject
	}
	y, err := objectYAML(rb, string(view.KindClusterRoleBinding))
	if err != nil {
		return nil, err
	}

	createdAt := int64(0)
	if ts := v.CreationTimestamp(); !ts.IsZero() {
		createdAt = ts.Unix()
	}

	return &dto.ClusterRoleBindingDetailsDTO{
		Summary: dto.BindingSummaryDTO{
			Name:      v.Name,
			Role:      v.Role,
			CreatedAt: createdAt,
			Age:       v.Age,
		},
		RoleRef: mapRoleRef(rb.RoleRef),
		// Subjects of a cluster role binding have no binding namespace to fall back to.
		Subjects: mapRoleBindingSubjects("", rb.Subjects),
		YAML:     string(y),
	}, nil
}
