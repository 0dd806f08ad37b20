package main

import (
	"fmt"

	"github.com/spf13/cobra"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/kube"
	"rbacview/internal/printer"
)

func newSubjectCmd(a *app) *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "subject <user|group|serviceaccount> <name>",
		Short: "List the bindings that grant roles to a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSubject(cmd, args[0], args[1], namespace)
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace of a service account (defaults to the context namespace)")

	return cmd
}

func (a *app) runSubject(cmd *cobra.Command, kindArg, name, namespace string) error {
	kind, err := kube.ParseSubjectKind(kindArg)
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

	ref := kube.SubjectRef{Kind: kind, Name: name}
	if kind == rbacv1.ServiceAccountKind {
		ref.Namespace = namespace
		if ref.Namespace == "" {
			ref.Namespace = mgr.DefaultNamespace()
		}
	}

	snap, err := kube.LoadSnapshot(ctx, clients, metav1.NamespaceAll)
	if err != nil {
		return err
	}
	found := kube.BindingsForSubject(snap, ref)

	p := &printer.TablePrinter{AllNamespaces: true}
	if _, err := fmt.Fprintln(a.out, "# RoleBinding"); err != nil {
		return err
	}
	if err := p.PrintRoleBindings(a.out, found.RoleBindings); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(a.out, "\n# ClusterRoleBinding"); err != nil {
		return err
	}
	return p.PrintClusterRoleBindings(a.out, found.ClusterRoleBindings)
}
