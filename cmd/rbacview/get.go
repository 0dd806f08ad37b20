package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/kube"
	"rbacview/internal/printer"
	"rbacview/internal/view"
)

type getOptions struct {
	namespace     string
	allNamespaces bool
}

func newGetCmd(a *app) *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get <roles|clusterroles|rolebindings|clusterrolebindings|all>",
		Short: "List RBAC resources as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "Namespace to list (defaults to the context namespace)")
	cmd.Flags().BoolVarP(&opts.allNamespaces, "all-namespaces", "A", false, "List across all namespaces")

	return cmd
}

func (a *app) runGet(cmd *cobra.Command, what string, opts *getOptions) error {
	mgr, err := a.manager()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	clients, active, err := mgr.GetClients(ctx)
	if err != nil {
		return err
	}

	ns := opts.namespace
	if ns == "" {
		ns = mgr.DefaultNamespace()
	}
	if opts.allNamespaces {
		ns = metav1.NamespaceAll
	}
	a.log.V(1).Info("listing", "resource", what, "context", active, "namespace", ns)

	p := &printer.TablePrinter{AllNamespaces: opts.allNamespaces}

	if strings.EqualFold(what, "all") {
		snap, err := kube.LoadSnapshot(ctx, clients, ns)
		if err != nil {
			return err
		}
		return p.PrintSnapshot(a.out, snap)
	}

	kind, err := view.ParseKind(what)
	if err != nil {
		return err
	}
	switch kind {
	case view.KindRole:
		items, err := kube.ListRoles(ctx, clients, ns)
		if err != nil {
			return err
		}
		return p.PrintRoles(a.out, items)
	case view.KindClusterRole:
		items, err := kube.ListClusterRoles(ctx, clients)
		if err != nil {
			return err
		}
		return p.PrintClusterRoles(a.out, items)
	case view.KindRoleBinding:
		items, err := kube.ListRoleBindings(ctx, clients, ns)
		if err != nil {
			return err
		}
		return p.PrintRoleBindings(a.out, items)
	case view.KindClusterRoleBinding:
		items, err := kube.ListClusterRoleBindings(ctx, clients)
		if err != nil {
			return err
		}
		return p.PrintClusterRoleBindings(a.out, items)
	}
	return fmt.Errorf("unsupported resource kind %q", what)
}
