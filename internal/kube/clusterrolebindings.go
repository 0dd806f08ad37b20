package kube

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/view"
)

func ListClusterRoleBindings(ctx context.Context, c *cluster.Clients) ([]view.ClusterRoleBindingView, error) {
	items, err := listClusterRoleBindings(ctx, c)
	if err != nil {
		return nil, err
	}
	return view.ConvertList(items, nowFunc(), view.NewClusterRoleBindingView), nil
}

func GetClusterRoleBinding(ctx context.Context, c *cluster.Clients, name string) (view.ClusterRoleBindingView, error) {
	rb, err := withRetry(ctx, "clusterrolebindings", func(ctx context.Context) (*rbacv1.ClusterRoleBinding, error) {
		return c.Clientset.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
	})
	if err != nil {
		return view.ClusterRoleBindingView{}, fmt.Errorf("get clusterrolebinding %s: %w", name, err)
	}
	return view.NewClusterRoleBindingView(rb, nowFunc()), nil
}

func listClusterRoleBindings(ctx context.Context, c *cluster.Clients) ([]rbacv1.ClusterRoleBinding, error) {
	list, err := withRetry(ctx, "clusterrolebindings", func(ctx context.Context) (*rbacv1.ClusterRoleBindingList, error) {
		return c.Clientset.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("list clusterrolebindings: %w", err)
	}
	return list.Items, nil
}
