package kube

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/view"
)

func ListClusterRoles(ctx context.Context, c *cluster.Clients) ([]view.ClusterRoleView, error) {
	items, err := listClusterRoles(ctx, c)
	if err != nil {
		return nil, err
	}
	return view.ConvertList(items, nowFunc(), view.NewClusterRoleView), nil
}

func GetClusterRole(ctx context.Context, c *cluster.Clients, name string) (view.ClusterRoleView, error) {
	role, err := withRetry(ctx, "clusterroles", func(ctx context.Context) (*rbacv1.ClusterRole, error) {
		return c.Clientset.RbacV1().ClusterRoles().Get(ctx, name, metav1.GetOptions{})
	})
	if err != nil {
		return view.ClusterRoleView{}, fmt.Errorf("get clusterrole %s: %w", name, err)
	}
	return view.NewClusterRoleView(role, nowFunc()), nil
}

func listClusterRoles(ctx context.Context, c *cluster.Clients) ([]rbacv1.ClusterRole, error) {
	list, err := withRetry(ctx, "clusterroles", func(ctx context.Context) (*rbacv1.ClusterRoleList, error) {
		return c.Clientset.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("list clusterroles: %w", err)
	}
	return list.Items, nil
}
