package view

import (
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	_ KubeResource[rbacv1.Role]        = RoleView{}
	_ Converter[rbacv1.Role, RoleView] = NewRoleView
)

type RoleView struct {
	Namespace string
	Name      string
	Age       string

	k8sObj *rbacv1.Role
}

func NewRoleView(role *rbacv1.Role, now time.Time) RoleView {
	return RoleView{
		Namespace: role.Namespace,
		Name:      role.Name,
		Age:       ToAge(&role.CreationTimestamp, now),
		k8sObj:    role.DeepCopy(),
	}
}

func (v RoleView) K8sObj() *rbacv1.Role {
	return v.k8sObj
}

func (v RoleView) RulesCount() int {
	if v.k8sObj == nil {
		return 0
	}
	return len(v.k8sObj.Rules)
}

func (v RoleView) CreationTimestamp() metav1.Time {
	if v.k8sObj == nil {
		return metav1.Time{}
	}
	return v.k8sObj.CreationTimestamp
}

func (v RoleView) Equal(o RoleView) bool {
	return v.Namespace == o.Namespace &&
		v.Name == o.Name &&
		v.Age == o.Age &&
		equality.Semantic.DeepEqual(v.k8sObj, o.k8sObj)
}
