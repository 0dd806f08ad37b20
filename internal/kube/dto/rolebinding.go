package dto

import "rbacview/internal/view"

type RoleBindingListItemDTO struct {
	Name          string `json:"name"`
	Namespace     string `json:"namespace"`
	Role          string `json:"role"`
	RoleRefKind   string `json:"roleRefKind"`
	SubjectsCount int    `json:"subjectsCount"`
	Age           string `json:"age"`
}

type RoleBindingDetailsDTO struct {
	Summary  BindingSummaryDTO `json:"summary"`
	RoleRef  RoleRefDTO        `json:"roleRef"`
	Subjects []SubjectDTO      `json:"subjects"`
	YAML     string            `json:"yaml"`
}

type BindingSummaryDTO struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	Age       string `json:"age"`
}

type RoleRefDTO struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	APIGroup string `json:"apiGroup"`
}

type SubjectDTO struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Namespace string `json:"namespace,omitempty"`
}

func FromRoleBindingView(v view.RoleBindingView) RoleBindingListItemDTO {
	return RoleBindingListItemDTO{
		Name:          v.Name,
		Namespace:     v.Namespace,
		Role:          v.Role,
		RoleRefKind:   v.RoleRef().Kind,
		SubjectsCount: v.SubjectsCount(),
		Age:           v.Age,
	}
}

func FromRoleBindingViews(in []view.RoleBindingView) []RoleBindingListItemDTO {
	out := make([]RoleBindingListItemDTO, 0, len(in))
	for _, v := range in {
		out = append(out, FromRoleBindingView(v))
	}
	return out
}

type SubjectBindingsDTO struct {
	Subject             SubjectDTO                      `json:"subject"`
	RoleBindings        []RoleBindingListItemDTO        `json:"roleBindings"`
	ClusterRoleBindings []ClusterRoleBindingListItemDTO `json:"clusterRoleBindings"`
}
