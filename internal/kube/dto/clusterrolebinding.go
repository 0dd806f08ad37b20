package dto

import "rbacview/internal/view"

type ClusterRoleBindingListItemDTO struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	SubjectsCount int    `json:"subjectsCount"`
	Age           string `json:"age"`
}

type ClusterRoleBindingDetailsDTO struct {
	Summary  BindingSummaryDTO `json:"summary"`
	RoleRef  RoleRefDTO        `json:"roleRef"`
	Subjects []SubjectDTO      `json:"subjects"`
	YAML     string            `json:"yaml"`
}

func FromClusterRoleBindingView(v view.ClusterRoleBindingView) ClusterRoleBindingListItemDTO {
	return ClusterRoleBindingListItemDTO{
		Name:          v.Name,
		Role:          v.Role,
		SubjectsCount: v.SubjectsCount(),
		Age:           v.Age,
	}
}

func FromClusterRoleBindingViews(in []view.ClusterRoleBindingView) []ClusterRoleBindingListItemDTO {
	out := make([]ClusterRoleBindingListItemDTO, 0, len(in))
	for _, v := range in {
		out = append(out, FromClusterRoleBindingView(v))
	}
	return out
}
