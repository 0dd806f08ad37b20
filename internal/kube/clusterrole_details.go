package kube

import (
	"context"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

func GetClusterRoleDetails(ctx context.Context, c *cluster.Clients, name string) (*dto.ClusterRoleDetailsDTO, error) {
	v, err := GetClusterRole(ctx, c, name)
	if err != nil {
		return nil, err
	}
	return DescribeClusterRole(v)
}

func DescribeClusterRole(v view.ClusterRoleView) (*dto.ClusterRoleDetailsDTO, error) {
	role := v.K8sObj()
	if role == nil {
		return nil, errNoObject
	}
	y, err := objectYAML(role, string(view.KindClusterRole))
	if err != nil {
		return nil, err
	}

	createdAt := int64(0)
	if ts := v.CreationTimestamp(); !ts.IsZero() {
		createdAt = ts.Unix()
	}

	return &dto.ClusterRoleDetailsDTO{
		Summary: dto.ClusterRoleSummaryDTO{
			Name:       v.Name,
			RulesCount: v.RulesCount(),
			Aggregated: v.Aggregated(),
			CreatedAt:  createdAt,
			Age:        v.Age,
		},
		Rules: mapPolicyRules(role.Rules),
		YAML:  string(y),
	}, nil
}
