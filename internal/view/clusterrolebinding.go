package view

import (
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	_ KubeResource[rbacv1.ClusterRoleBinding]                      = ClusterRoleBindingView{}
	_ Converter[rbacv1.ClusterRoleBinding, ClusterRoleBindingView] = NewClusterRoleBindingView
)

type ClusterRoleBindingView struct {
	Name string
	// Role is "<kind>/<name>" because a cluster role binding may reference
	// either a Role or a ClusterRole.
	Role string
	Age  string

	k8sObj *rbacv1.ClusterRoleBinding
}

func NewClusterRoleBindingView(rb *rbacv1.ClusterRoleBinding, now time.Time) ClusterRoleBindingView {
	return ClusterRoleBindingView{
		Name:   rb.Name,
		Role:   rb.RoleRef.Kind + "/" + rb.RoleRef.Name,
		Age:    ToAge(&rb.CreationTimestamp, now),
		k8sObj: rb.DeepCopy(),
	}
}

func (v ClusterRoleBindingView) K8sObj() *rbacv1.ClusterRoleBinding {
	return v.k8sObj
}

func (v ClusterRoleBindingView) RoleRef() rbacv1.RoleRef {
	if v.k8sObj == nil {
		return rbacv1.RoleRef{}
	}
	return v.k8sObj.RoleRef
}

func (v ClusterRoleBindingView) SubjectsCount() int {
	if v.k8sObj == nil {
		return 0
	}
	return len(v.k8sObj.Subjects)
}

func (v ClusterRoleBindingView) CreationTimestamp() metav1.Time {
	if v.k8sObj == nil {
		return metav1.Time{}
	}
	return v.k8sObj.CreationTimestamp
}

func (v ClusterRoleBindingView) Equal(o ClusterRoleBindingView) bool {
	return v.Name == o.Name &&
		v.Role == o.Role &&
		v.Age == o.Age &&
		equality.Semantic.DeepEqual(v.k8sObj, o.k8sObj)
}
