package kube

import (
	"fmt"
	"strings"

	rbacv1 "k8s.io/api/rbac/v1"

	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

// SubjectRef identifies a user, group or service account. Namespace only
// applies to service accounts.
type SubjectRef struct {
	Kind      string
	Name      string
	Namespace string
}

// ParseSubjectKind accepts the RBAC subject kinds and their common short
// forms.
func ParseSubjectKind(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "users":
		return rbacv1.UserKind, nil
	case "group", "groups":
		return rbacv1.GroupKind, nil
	case "serviceaccount", "serviceaccounts", "sa":
		return rbacv1.ServiceAccountKind, nil
	}
	return "", fmt.Errorf("unsupported subject kind %q", s)
}

// SubjectBindings are the bindings in a snapshot that name one subject.
type SubjectBindings struct {
	Subject             SubjectRef
	RoleBindings        []view.RoleBindingView
	ClusterRoleBindings []view.ClusterRoleBindingView
}

// BindingsForSubject filters the snapshot's bindings by subject, using each
// record's retained object.
func BindingsForSubject(s *Snapshot, ref SubjectRef) SubjectBindings {
	out := SubjectBindings{Subject: ref}
	for _, rb := range s.RoleBindings {
		if obj := rb.K8sObj(); obj != nil && hasSubject(obj.Subjects, obj.Namespace, ref) {
			out.RoleBindings = append(out.RoleBindings, rb)
		}
	}
	for _, crb := range s.ClusterRoleBindings {
		// No binding namespace to default to at cluster scope.
		if obj := crb.K8sObj(); obj != nil && hasSubject(obj.Subjects, "", ref) {
			out.ClusterRoleBindings = append(out.ClusterRoleBindings, crb)
		}
	}
	return out
}

func (b SubjectBindings) DTO() dto.SubjectBindingsDTO {
	return dto.SubjectBindingsDTO{
		Subject: dto.SubjectDTO{
			Kind:      b.Subject.Kind,
			Name:      b.Subject.Name,
			Namespace: b.Subject.Namespace,
		},
		RoleBindings:        dto.FromRoleBindingViews(b.RoleBindings),
		ClusterRoleBindings: dto.FromClusterRoleBindingViews(b.ClusterRoleBindings),
	}
}

func hasSubject(subjects []rbacv1.Subject, bindingNamespace string, ref SubjectRef) bool {
	for _, s := range subjects {
		// Same normalization as mapRoleBindingSubjects.
		kind := strings.TrimSpace(s.Kind)
		if kind != ref.Kind || strings.TrimSpace(s.Name) != strings.TrimSpace(ref.Name) {
			continue
		}
		if kind != rbacv1.ServiceAccountKind {
			return true
		}
		subjectNS := strings.TrimSpace(s.Namespace)
		if subjectNS == "" {
			subjectNS = bindingNamespace
		}
		if subjectNS == strings.TrimSpace(ref.Namespace) {
			return true
		}
	}
	return false
}
