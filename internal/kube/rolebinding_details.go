package kube

import (
	"context"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

func GetRoleBindingDetails(ctx context.Context, c *cluster.Clients, namespace, name string) (*dto.RoleBindingDetailsDTO, error) {
	v, err := GetRoleBinding(ctx, c, namespace, name)
	if err != nil {
		return nil, err
	}
	return DescribeRoleBinding(v)
}

func DescribeRoleBinding(v view.RoleBindingView) (*dto.RoleBindingDetailsDTO, error) {
	rb := v.K8sObj()
	if rb == nil {
		return nil, errNoObject
	}
	y, err := objectYAML(rb, string(view.KindRoleBinding))
	if err != nil {
		return nil, err
	}

	createdAt := int64(0)
	if ts := v.CreationTimestamp(); !ts.IsZero() {
		createdAt = ts.Unix()
	}

	return &dto.RoleBindingDetailsDTO{
		Summary: dto.BindingSummaryDTO{
			Name:      v.Name,
			Namespace: v.Namespace,
			Role:      v.Role,
			CreatedAt: createdAt,
			Age:       v.Age,
		},
		RoleRef:  mapRoleRef(rb.RoleRef),
		Subjects: mapRoleBindingSubjects(rb.Namespace, rb.Subjects),
		YAML:     string(y),
	}, nil
}
