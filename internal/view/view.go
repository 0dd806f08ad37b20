// Package view turns raw RBAC API objects into display-ready records.
//
// Every record keeps an owned copy of the object it was built from so that
// describe and detail operations can reuse it without another round trip to
// the API server.
package view

import (
	"fmt"
	"strings"
	"time"
)

// KubeResource is implemented by every record derived from a raw object of
// type T.
type KubeResource[T any] interface {
	// K8sObj returns the retained raw object.
	K8sObj() *T
}

// Converter builds a record from one raw object. now is the reference
// instant used for derived fields such as Age.
type Converter[T any, R KubeResource[T]] func(obj *T, now time.Time) R

// ConvertList converts items in order using a single reference instant.
func ConvertList[T any, R KubeResource[T]](items []T, now time.Time, conv Converter[T, R]) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, conv(&items[i], now))
	}
	return out
}

type Kind string

const (
	KindRole               Kind = "Role"
	KindClusterRole        Kind = "ClusterRole"
	KindRoleBinding        Kind = "RoleBinding"
	KindClusterRoleBinding Kind = "ClusterRoleBinding"
)

// Kinds lists the supported kinds in display order.
var Kinds = []Kind{KindRole, KindClusterRole, KindRoleBinding, KindClusterRoleBinding}

// Namespaced reports whether objects of kind k live in a namespace.
func (k Kind) Namespaced() bool {
	return k == KindRole || k == KindRoleBinding
}

// ParseKind accepts the kind name or the kubectl resource/short names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "role", "roles":
		return KindRole, nil
	case "clusterrole", "clusterroles":
		return KindClusterRole, nil
	case "rolebinding", "rolebindings", "rb":
		return KindRoleBinding, nil
	case "clusterrolebinding", "clusterrolebindings", "crb":
		return KindClusterRoleBinding, nil
	}
	return "", fmt.Errorf("unsupported resource kind %q", s)
}
