package dto

type SnapshotDTO struct {
	Namespace           string                          `json:"namespace,omitempty"`
	Roles               []RoleListItemDTO               `json:"roles"`
	ClusterRoles        []ClusterRoleListItemDTO        `json:"clusterRoles"`
	RoleBindings        []RoleBindingListItemDTO        `json:"roleBindings"`
	ClusterRoleBindings []ClusterRoleBindingListItemDTO `json:"clusterRoleBindings"`
	Forbidden           []string                        `json:"forbidden,omitempty"`
}
