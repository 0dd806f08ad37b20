package printer

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/kube"
	"rbacview/internal/view"
)

var now = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func meta(ns, name string, age time.Duration) metav1.ObjectMeta {
	return metav1.ObjectMeta{Namespace: ns, Name: name, CreationTimestamp: metav1.NewTime(now.Add(-age))}
}

// normalize collapses column padding so tests do not depend on tab widths.
func normalize(out string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		lines = append(lines, strings.Join(strings.Fields(l), " "))
	}
	return lines
}

func testSnapshot() *kube.Snapshot {
	return &kube.Snapshot{
		Roles: []view.RoleView{
			view.NewRoleView(&rbacv1.Role{ObjectMeta: meta("default", "kiali-viewer", 3*time.Hour)}, now),
		},
		ClusterRoles: []view.ClusterRoleView{
			view.NewClusterRoleView(&rbacv1.ClusterRole{ObjectMeta: meta("", "admin", 12*24*time.Hour)}, now),
		},
		RoleBindings: []view.RoleBindingView{
			view.NewRoleBindingView(&rbacv1.RoleBinding{
				ObjectMeta: meta("default", "kiali", 3*time.Hour),
				RoleRef:    rbacv1.RoleRef{Kind: "Role", Name: "kiali-viewer"},
			}, now),
		},
		Forbidden: []view.Kind{view.KindClusterRoleBinding},
	}
}

func TestPrintRoles(t *testing.T) {
	s := testSnapshot()

	var buf bytes.Buffer
	require.NoError(t, (&TablePrinter{}).PrintRoles(&buf, s.Roles))
	if diff := cmp.Diff([]string{"NAME AGE", "kiali-viewer 3h"}, normalize(buf.String())); diff != "" {
		t.Errorf("PrintRoles() mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, (&TablePrinter{AllNamespaces: true}).PrintRoles(&buf, s.Roles))
	if diff := cmp.Diff([]string{"NAMESPACE NAME AGE", "default kiali-viewer 3h"}, normalize(buf.String())); diff != "" {
		t.Errorf("PrintRoles() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintClusterRoleBindings(t *testing.T) {
	crbs := []view.ClusterRoleBindingView{
		view.NewClusterRoleBindingView(&rbacv1.ClusterRoleBinding{
			ObjectMeta: meta("", "admin-user", 30*time.Second),
			RoleRef:    rbacv1.RoleRef{Kind: "ClusterRole", Name: "cluster-admin"},
		}, now),
		view.NewClusterRoleBindingView(&rbacv1.ClusterRoleBinding{
			ObjectMeta: metav1.ObjectMeta{Name: "no-timestamp"},
			RoleRef:    rbacv1.RoleRef{Kind: "Role", Name: "local"},
		}, now),
	}

	var buf bytes.Buffer
	require.NoError(t, (&TablePrinter{AllNamespaces: true}).PrintClusterRoleBindings(&buf, crbs))
	want := []string{
		"NAME ROLE AGE",
		"admin-user ClusterRole/cluster-admin 30s",
		"no-timestamp Role/local",
	}
	if diff := cmp.Diff(want, normalize(buf.String())); diff != "" {
		t.Errorf("PrintClusterRoleBindings() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TablePrinter{}).PrintSnapshot(&buf, testSnapshot()))

	want := []string{
		"# Role",
		"NAME AGE",
		"kiali-viewer 3h",
		"",
		"# ClusterRole",
		"NAME AGE",
		"admin 12d",
		"",
		"# RoleBinding",
		"NAME ROLE AGE",
		"kiali kiali-viewer 3h",
		"",
		"# ClusterRoleBinding",
		"forbidden",
	}
	if diff := cmp.Diff(want, normalize(buf.String())); diff != "" {
		t.Errorf("PrintSnapshot() mismatch (-want +got):\n%s", diff)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestPrintWriteError(t *testing.T) {
	err := (&TablePrinter{}).PrintSnapshot(failingWriter{}, testSnapshot())
	require.Error(t, err)
}
