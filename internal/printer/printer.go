// Package printer renders RBAC records as kubectl-style tables.
package printer

import (
	"fmt"
	"io"
	"strings"

	"k8s.io/cli-runtime/pkg/printers"

	"rbacview/internal/kube"
	"rbacview/internal/view"
)

// TablePrinter writes records to an io.Writer. With AllNamespaces set,
// namespaced tables get a leading NAMESPACE column.
type TablePrinter struct {
	AllNamespaces bool
}

type row []string

func (r row) String() string {
	return strings.Join(r, "\t") + "\t"
}

func (p *TablePrinter) PrintRoles(w io.Writer, roles []view.RoleView) error {
	rows := make([]row, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, p.namespaced(r.Namespace, r.Name, r.Age))
	}
	return p.write(w, p.namespaced("NAMESPACE", "NAME", "AGE"), rows)
}

func (p *TablePrinter) PrintClusterRoles(w io.Writer, roles []view.ClusterRoleView) error {
	rows := make([]row, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, row{r.Name, r.Age})
	}
	return p.write(w, row{"NAME", "AGE"}, rows)
}

func (p *TablePrinter) PrintRoleBindings(w io.Writer, bindings []view.RoleBindingView) error {
	rows := make([]row, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, p.namespaced(b.Namespace, b.Name, b.Role, b.Age))
	}
	return p.write(w, p.namespaced("NAMESPACE", "NAME", "ROLE", "AGE"), rows)
}

func (p *TablePrinter) PrintClusterRoleBindings(w io.Writer, bindings []view.ClusterRoleBindingView) error {
	rows := make([]row, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, row{b.Name, b.Role, b.Age})
	}
	return p.write(w, row{"NAME", "ROLE", "AGE"}, rows)
}

// PrintSnapshot prints one table per kind, separated by blank lines. Kinds
// that could not be listed are reported instead of printed as empty.
func (p *TablePrinter) PrintSnapshot(w io.Writer, s *kube.Snapshot) error {
	forbidden := make(map[view.Kind]bool, len(s.Forbidden))
	for _, k := range s.Forbidden {
		forbidden[k] = true
	}

	sections := []struct {
		kind  view.Kind
		print func() error
	}{
		{view.KindRole, func() error { return p.PrintRoles(w, s.Roles) }},
		{view.KindClusterRole, func() error { return p.PrintClusterRoles(w, s.ClusterRoles) }},
		{view.KindRoleBinding, func() error { return p.PrintRoleBindings(w, s.RoleBindings) }},
		{view.KindClusterRoleBinding, func() error { return p.PrintClusterRoleBindings(w, s.ClusterRoleBindings) }},
	}
	for i, sec := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("write separator: %w", err)
			}
		}
		if _, err := fmt.Fprintf(w, "# %s\n", sec.kind); err != nil {
			return fmt.Errorf("write section header: %w", err)
		}
		if forbidden[sec.kind] {
			if _, err := fmt.Fprintln(w, "forbidden"); err != nil {
				return fmt.Errorf("write section: %w", err)
			}
			continue
		}
		if err := sec.print(); err != nil {
			return err
		}
	}
	return nil
}

func (p *TablePrinter) namespaced(ns string, cols ...string) row {
	if !p.AllNamespaces {
		return row(cols)
	}
	return append(row{ns}, cols...)
}

func (p *TablePrinter) write(w io.Writer, header row, rows []row) error {
	tw := printers.GetNewTabWriter(w)
	if _, err := fmt.Fprintln(tw, header.String()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(tw, r.String()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}
