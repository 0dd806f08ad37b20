package kube

import (
	"context"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

func GetRoleDetails(ctx context.Context, c *cluster.Clients, namespace, name string) (*dto.RoleDetailsDTO, error) {
	v, err := GetRole(ctx, c, namespace, name)
	if err != nil {
		return nil, err
	}
	return DescribeRole(v)
}

// DescribeRole builds the details view from the object retained by v.
func DescribeRole(v view.RoleView) (*dto.RoleDetailsDTO, error) {
	role := v.K8sObj()
	if role == nil {
		return nil, errNoObject
	}
	y, err := objectYAML(role, string(view.KindRole))
	if err != nil {
		return nil, err
	}

	createdAt := int64(0)
	if ts := v.CreationTimestamp(); !ts.IsZero() {
		createdAt = ts.Unix()
	}

	return &dto.RoleDetailsDTO{
		Summary: dto.RoleSummaryDTO{
			Name:       v.Name,
			Namespace:  v.Namespace,
			RulesCount: v.RulesCount(),
			CreatedAt:  createdAt,
			Age:        v.Age,
		},
		Rules: mapPolicyRules(role.Rules),
		YAML:  string(y),
	}, nil
}
