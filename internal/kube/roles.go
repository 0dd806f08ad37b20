package kube

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/view"
)

// ListRoles lists roles in namespace, or in all namespaces when namespace is
// empty.
func ListRoles(ctx context.Context, c *cluster.Clients, namespace string) ([]view.RoleView, error) {
	items, err := listRoles(ctx, c, namespace)
	if err != nil {
		return nil, err
	}
	return view.ConvertList(items, nowFunc(), view.NewRoleView), nil
}

func GetRole(ctx context.Context, c *cluster.Clients, namespace, name string) (view.RoleView, error) {
	role, err := withRetry(ctx, "roles", func(ctx context.Context) (*rbacv1.Role, error) {
		return c.Clientset.RbacV1().Roles(namespace).Get(ctx, name, metav1.GetOptions{})
	})
	if err != nil {
		return view.RoleView{}, fmt.Errorf("get role %s/%s: %w", namespace, name, err)
	}
	return view.NewRoleView(role, nowFunc()), nil
}

func listRoles(ctx context.Context, c *cluster.Clients, namespace string) ([]rbacv1.Role, error) {
	list, err := withRetry(ctx, "roles", func(ctx context.Context) (*rbacv1.RoleList, error) {
		return c.Clientset.RbacV1().Roles(namespace).List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return list.Items, nil
}
