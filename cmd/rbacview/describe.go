package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rbacview/internal/kube"
	"rbacview/internal/view"
)

func newDescribeCmd(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "describe <kind> <name>",
		Short: "Print one RBAC resource as YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDescribe(cmd, args[0], args[1], namespace)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace of a role or role binding (defaults to the context namespace)")

	return cmd
}

func (a *app) runDescribe(cmd *cobra.Command, what, name, namespace string) error {
	kind, err := view.ParseKind(what)
	if err != nil {
		return err
	}

	mgr, err := a.manager()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	clients, _, err := mgr.GetClients(ctx)
	if err != nil {
		return err
	}
	if namespace == "" && kind.Namespaced() {
		namespace = mgr.DefaultNamespace()
	}

	var y string
	switch kind {
	case view.KindRole:
		det, err := kube.GetRoleDetails(ctx, clients, namespace, name)
		if err != nil {
			return err
		}
		y = det.YAML
	case view.KindClusterRole:
		det, err := kube.GetClusterRoleDetails(ctx, clients, name)
		if err != nil {
			return err
		}
		y = det.YAML
	case view.KindRoleBinding:
		det, err := kube.GetRoleBindingDetails(ctx, clients, namespace, name)
		if err != nil {
			return err
		}
		y = det.YAML
	case view.KindClusterRoleBinding:
		det, err := kube.GetClusterRoleBindingDetails(ctx, clients, name)
		if err != nil {
			return err
		}
		y = det.YAML
	}

	_, err = fmt.Fprint(a.out, y)
	return err
}
