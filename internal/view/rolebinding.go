package view

import (
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	_ KubeResource[rbacv1.RoleBinding]               = RoleBindingView{}
	_ Converter[rbacv1.RoleBinding, RoleBindingView] = NewRoleBindingView
)

type RoleBindingView struct {
	Namespace string
	Name      string
	// Role is the bare name from roleRef. It is not checked against the
	// roles that currently exist.
	Role string
	Age  string

	k8sObj *rbacv1.RoleBinding
}

func NewRoleBindingView(rb *rbacv1.RoleBinding, now time.Time) RoleBindingView {
	return RoleBindingView{
		Namespace: rb.Namespace,
		Name:      rb.Name,
		Role:      rb.RoleRef.Name,
		Age:       ToAge(&rb.CreationTimestamp, now),
		k8sObj:    rb.DeepCopy(),
	}
}

func (v RoleBindingView) K8sObj() *rbacv1.RoleBinding {
	return v.k8sObj
}

func (v RoleBindingView) RoleRef() rbacv1.RoleRef {
	if v.k8sObj == nil {
		return rbacv1.RoleRef{}
	}
	return v.k8sObj.RoleRef
}

func (v RoleBindingView) SubjectsCount() int {
	if v.k8sObj == nil {
		return 0
	}
	return len(v.k8sObj.Subjects)
}

func (v RoleBindingView) CreationTimestamp() metav1.Time {
	if v.k8sObj == nil {
		return metav1.Time{}
	}
	return v.k8sObj.CreationTimestamp
}

func (v RoleBindingView) Equal(o RoleBindingView) bool {
	return v.Namespace == o.Namespace &&
		v.Name == o.Name &&
		v.Role == o.Role &&
		v.Age == o.Age &&
		equality.Semantic.DeepEqual(v.k8sObj, o.k8sObj)
}
