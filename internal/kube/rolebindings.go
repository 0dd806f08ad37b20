package kube

import (
	"context"
	"fmt"

	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/view"
)

func ListRoleBindings(ctx context.Context, c *cluster.Clients, namespace string) ([]view.RoleBindingView, error) {
	items, err := listRoleBindings(ctx, c, namespace)
	if err != nil {
		return nil, err
	}
	return view.ConvertList(items, nowFunc(), view.NewRoleBindingView), nil
}

func GetRoleBinding(ctx context.Context, c *cluster.Clients, namespace, name string) (view.RoleBindingView, error) {
	rb, err := withRetry(ctx, "rolebindings", func(ctx context.Context) (*rbacv1.RoleBinding, error) {
		return c.Clientset.RbacV1().RoleBindings(namespace).Get(ctx, name, metav1.GetOptions{})
	})
	if err != nil {
		return view.RoleBindingView{}, fmt.Errorf("get rolebinding %s/%s: %w", namespace, name, err)
	}
	return view.NewRoleBindingView(rb, nowFunc()), nil
}

func listRoleBindings(ctx context.Context, c *cluster.Clients, namespace string) ([]rbacv1.RoleBinding, error) {
	list, err := withRetry(ctx, "rolebindings", func(ctx context.Context) (*rbacv1.RoleBindingList, error) {
		return c.Clientset.RbacV1().RoleBindings(namespace).List(ctx, metav1.ListOptions{})
	})
	if err != nil {
		return nil, fmt.Errorf("list rolebindings: %w", err)
	}
	return list.Items, nil
}
