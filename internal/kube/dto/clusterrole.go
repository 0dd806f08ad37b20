package dto

import "rbacview/internal/view"

type ClusterRoleListItemDTO struct {
	Name       string `json:"name"`
	RulesCount int    `json:"rulesCount"`
	Aggregated bool   `json:"aggregated,omitempty"`
	Age        string `json:"age"`
}

type ClusterRoleDetailsDTO struct {
	Summary ClusterRoleSummaryDTO `json:"summary"`
	Rules   []PolicyRuleDTO       `json:"rules"`
	YAML    string                `json:"yaml"`
}

type ClusterRoleSummaryDTO struct {
	Name       string `json:"name"`
	RulesCount int    `json:"rulesCount"`
	Aggregated bool   `json:"aggregated,omitempty"`
	CreatedAt  int64  `json:"createdAt,omitempty"`
	Age        string `json:"age"`
}

func FromClusterRoleView(v view.ClusterRoleView) ClusterRoleListItemDTO {
	return ClusterRoleListItemDTO{
		Name:       v.Name,
		RulesCount: v.RulesCount(),
		Aggregated: v.Aggregated(),
		Age:        v.Age,
	}
}

func FromClusterRoleViews(in []view.ClusterRoleView) []ClusterRoleListItemDTO {
	out := make([]ClusterRoleListItemDTO, 0, len(in))
	for _, v := range in {
		out = append(out, FromClusterRoleView(v))
	}
	return out
}
