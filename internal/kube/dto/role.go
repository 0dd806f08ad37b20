package dto

import "rbacview/internal/view"

type RoleListItemDTO struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	RulesCount int    `json:"rulesCount"`
	Age        string `json:"age"`
}

type RoleDetailsDTO struct {
	Summary RoleSummaryDTO  `json:"summary"`
	Rules   []PolicyRuleDTO `json:"rules"`
	YAML    string          `json:"yaml"`
}

type RoleSummaryDTO struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	RulesCount int    `json:"rulesCount"`
	CreatedAt  int64  `json:"createdAt,omitempty"`
	Age        string `json:"age"`
}

type PolicyRuleDTO struct {
	APIGroups       []string `json:"apiGroups,omitempty"`
	Resources       []string `json:"resources,omitempty"`
	Verbs           []string `json:"verbs,omitempty"`
	ResourceNames   []string `json:"resourceNames,omitempty"`
	NonResourceURLs []string `json:"nonResourceURLs,omitempty"`
}

func FromRoleView(v view.RoleView) RoleListItemDTO {
	return RoleListItemDTO{
		Name:       v.Name,
		Namespace:  v.Namespace,
		RulesCount: v.RulesCount(),
		Age:        v.Age,
	}
}

func FromRoleViews(in []view.RoleView) []RoleListItemDTO {
	out := make([]RoleListItemDTO, 0, len(in))
	for _, v := range in {
		out = append(out, FromRoleView(v))
	}
	return out
}
