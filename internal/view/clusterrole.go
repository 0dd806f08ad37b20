package view

import (
	"time"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

var (
	_ KubeResource[rbacv1.ClusterRole]               = ClusterRoleView{}
	_ Converter[rbacv1.ClusterRole, ClusterRoleView] = NewClusterRoleView
)

type ClusterRoleView struct {
	Name string
	Age  string

	k8sObj *rbacv1.ClusterRole
}

func NewClusterRoleView(role *rbacv1.ClusterRole, now time.Time) ClusterRoleView {
	return ClusterRoleView{
		Name:   role.Name,
		Age:    ToAge(&role.CreationTimestamp, now),
		k8sObj: role.DeepCopy(),
	}
}

func (v ClusterRoleView) K8sObj() *rbacv1.ClusterRole {
	return v.k8sObj
}

// RulesCount does not expand aggregation rules; it counts what the API
// server has already aggregated into Rules.
func (v ClusterRoleView) RulesCount() int {
	if v.k8sObj == nil {
		return 0
	}
	return len(v.k8sObj.Rules)
}

func (v ClusterRoleView) Aggregated() bool {
	return v.k8sObj != nil && v.k8sObj.AggregationRule != nil
}

func (v ClusterRoleView) CreationTimestamp() metav1.Time {
	if v.k8sObj == nil {
		return metav1.Time{}
	}
	return v.k8sObj.CreationTimestamp
}

func (v ClusterRoleView) Equal(o ClusterRoleView) bool {
	return v.Name == o.Name &&
		v.Age == o.Age &&
		equality.Semantic.DeepEqual(v.k8sObj, o.k8sObj)
}
