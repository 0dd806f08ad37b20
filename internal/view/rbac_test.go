package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestRolesFromRBACAPI(t *testing.T) {
	list := loadFixture[rbacv1.RoleList](t, "roles")

	roles := ConvertList(list.Items, referenceTime, NewRoleView)

	require.Len(t, roles, 1)
	want := RoleView{
		Namespace: "default",
		Name:      "kiali-viewer",
		Age:       ToAge(&metav1.Time{Time: mustTime(t, "2022-06-27T16:33:06Z")}, referenceTime),
		k8sObj:    &list.Items[0],
	}
	require.True(t, want.Equal(roles[0]), "got %+v", roles[0])
	require.Equal(t, "552d", roles[0].Age)
	require.Equal(t, 2, roles[0].RulesCount())
}

func TestClusterRolesFromRBACAPI(t *testing.T) {
	list := loadFixture[rbacv1.ClusterRoleList](t, "clusterroles")

	clusterRoles := ConvertList(list.Items, referenceTime, NewClusterRoleView)

	require.Len(t, clusterRoles, 1)
	want := ClusterRoleView{
		Name:   "admin",
		Age:    ToAge(&metav1.Time{Time: mustTime(t, "2021-12-14T11:04:22Z")}, referenceTime),
		k8sObj: &list.Items[0],
	}
	require.True(t, want.Equal(clusterRoles[0]), "got %+v", clusterRoles[0])
	require.Equal(t, "2y17d", clusterRoles[0].Age)
	require.True(t, clusterRoles[0].Aggregated())
}

func TestRoleBindingsFromRBACAPI(t *testing.T) {
	list := loadFixture[rbacv1.RoleBindingList](t, "role_bindings")

	bindings := ConvertList(list.Items, referenceTime, NewRoleBindingView)

	require.Len(t, bindings, 1)
	want := RoleBindingView{
		Namespace: "default",
		Name:      "kiali",
		Role:      "kiali-viewer",
		Age:       ToAge(&metav1.Time{Time: mustTime(t, "2022-06-27T16:33:07Z")}, referenceTime),
		k8sObj:    &list.Items[0],
	}
	require.True(t, want.Equal(bindings[0]), "got %+v", bindings[0])
	require.Equal(t, 1, bindings[0].SubjectsCount())
	require.Equal(t, "Role", bindings[0].RoleRef().Kind)
}

func TestClusterRoleBindingsFromRBACAPI(t *testing.T) {
	list := loadFixture[rbacv1.ClusterRoleBindingList](t, "clusterrole_binding")

	bindings := ConvertList(list.Items, referenceTime, NewClusterRoleBindingView)

	require.Len(t, bindings, 2)
	want := ClusterRoleBindingView{
		Name:   "admin-user",
		Role:   "ClusterRole/cluster-admin",
		Age:    ToAge(&metav1.Time{Time: mustTime(t, "2022-03-02T16:50:53Z")}, referenceTime),
		k8sObj: &list.Items[0],
	}
	require.True(t, want.Equal(bindings[0]), "got %+v", bindings[0])
	require.Equal(t, "669d", bindings[0].Age)
	require.Equal(t, "kiali", bindings[1].Name)
	require.Equal(t, "ClusterRole/kiali", bindings[1].Role)
}

func TestBindingRoleFormatting(t *testing.T) {
	ref := rbacv1.RoleRef{APIGroup: rbacv1.GroupName, Kind: "Role", Name: "kiali-viewer"}

	rb := NewRoleBindingView(&rbacv1.RoleBinding{RoleRef: ref}, referenceTime)
	require.Equal(t, "kiali-viewer", rb.Role)

	// A cluster role binding can point at a Role too; the kind keeps the two apart.
	crb := NewClusterRoleBindingView(&rbacv1.ClusterRoleBinding{RoleRef: ref}, referenceTime)
	require.Equal(t, "Role/kiali-viewer", crb.Role)

	ref.Kind, ref.Name = "ClusterRole", "cluster-admin"
	crb = NewClusterRoleBindingView(&rbacv1.ClusterRoleBinding{RoleRef: ref}, referenceTime)
	require.Equal(t, "ClusterRole/cluster-admin", crb.Role)
}

func TestConversionWithMissingMetadata(t *testing.T) {
	role := NewRoleView(&rbacv1.Role{}, referenceTime)
	require.Equal(t, "", role.Namespace)
	require.Equal(t, "", role.Name)
	require.Equal(t, "", role.Age)
	require.NotNil(t, role.K8sObj())

	cr := NewClusterRoleView(&rbacv1.ClusterRole{}, referenceTime)
	require.Equal(t, "", cr.Name)
	require.Equal(t, "", cr.Age)

	rb := NewRoleBindingView(&rbacv1.RoleBinding{}, referenceTime)
	require.Equal(t, "", rb.Role)

	crb := NewClusterRoleBindingView(&rbacv1.ClusterRoleBinding{}, referenceTime)
	require.Equal(t, "/", crb.Role)
	require.Equal(t, 0, crb.SubjectsCount())
}

func TestConversionIsDeterministic(t *testing.T) {
	list := loadFixture[rbacv1.ClusterRoleBindingList](t, "clusterrole_binding")

	first := NewClusterRoleBindingView(&list.Items[0], referenceTime)
	second := NewClusterRoleBindingView(&list.Items[0], referenceTime)

	require.Equal(t, first.Age, second.Age)
	require.True(t, first.Equal(second))
	require.NotSame(t, first.K8sObj(), second.K8sObj())
}

func TestRetainedObjectIsOwnedCopy(t *testing.T) {
	list := loadFixture[rbacv1.RoleList](t, "roles")
	in := &list.Items[0]

	v := NewRoleView(in, referenceTime)
	require.NotSame(t, in, v.K8sObj())

	in.Labels["app"] = "changed"
	in.Rules = nil

	require.Equal(t, "kiali", v.K8sObj().Labels["app"])
	require.Equal(t, 2, v.RulesCount())
}

func TestEqualityIncludesRetainedObject(t *testing.T) {
	list := loadFixture[rbacv1.RoleList](t, "roles")

	a := NewRoleView(&list.Items[0], referenceTime)

	other := list.Items[0].DeepCopy()
	other.ResourceVersion = "9999"
	b := NewRoleView(other, referenceTime)

	require.Equal(t, a.Name, b.Name)
	require.Equal(t, a.Namespace, b.Namespace)
	require.Equal(t, a.Age, b.Age)
	require.False(t, a.Equal(b))

	later := NewRoleView(&list.Items[0], referenceTime.AddDate(0, 0, 1))
	require.False(t, a.Equal(later))
}

func TestConvertListPreservesOrder(t *testing.T) {
	names := []string{"zeta", "alpha", "mid", "alpha"}
	items := make([]rbacv1.ClusterRole, 0, len(names))
	for _, n := range names {
		items = append(items, rbacv1.ClusterRole{ObjectMeta: metav1.ObjectMeta{Name: n}})
	}

	got := ConvertList(items, referenceTime, NewClusterRoleView)

	require.Len(t, got, len(names))
	for i, v := range got {
		require.Equal(t, names[i], v.Name)
	}

	empty := ConvertList(nil, referenceTime, NewRoleView)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestConvertListWithConverterValue(t *testing.T) {
	// A converter pinned to another instant ignores the list's reference time.
	created := metav1.NewTime(referenceTime.Add(-time.Hour))
	pinned := referenceTime.Add(time.Hour)
	var conv Converter[rbacv1.Role, RoleView] = func(obj *rbacv1.Role, _ time.Time) RoleView {
		return NewRoleView(obj, pinned)
	}

	got := ConvertList([]rbacv1.Role{{ObjectMeta: metav1.ObjectMeta{Name: "r", Namespace: "ns", CreationTimestamp: created}}}, referenceTime, conv)
	require.Len(t, got, 1)
	require.Equal(t, "2h", got[0].Age)
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"roles":               KindRole,
		"Role":                KindRole,
		"clusterroles":        KindClusterRole,
		"rb":                  KindRoleBinding,
		"RoleBindings":        KindRoleBinding,
		"crb":                 KindClusterRoleBinding,
		" clusterrolebinding": KindClusterRoleBinding,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseKind("pods")
	require.Error(t, err)

	require.True(t, KindRole.Namespaced())
	require.False(t, KindClusterRoleBinding.Namespaced())
}
