package kube

import (
	"encoding/json"
	"errors"
	"strings"

	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"rbacview/internal/kube/dto"
)

var errNoObject = errors.New("record has no retained object")

func mapPolicyRules(rules []rbacv1.PolicyRule) []dto.PolicyRuleDTO {
	if len(rules) == 0 {
		return nil
	}
	out := make([]dto.PolicyRuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.PolicyRuleDTO{
			APIGroups:       cleanStringSlice(r.APIGroups),
			Resources:       cleanStringSlice(r.Resources),
			Verbs:           cleanStringSlice(r.Verbs),
			ResourceNames:   cleanStringSlice(r.ResourceNames),
			NonResourceURLs: cleanStringSlice(r.NonResourceURLs),
		})
	}
	return out
}

func mapRoleRef(ref rbacv1.RoleRef) dto.RoleRefDTO {
	return dto.RoleRefDTO{
		Kind:     ref.Kind,
		Name:     ref.Name,
		APIGroup: ref.APIGroup,
	}
}

// mapRoleBindingSubjects defaults a ServiceAccount subject without a
// namespace to the binding's namespace, which is how the API server
// resolves it.
func mapRoleBindingSubjects(bindingNamespace string, subjects []rbacv1.Subject) []dto.SubjectDTO {
	if len(subjects) == 0 {
		return nil
	}
	out := make([]dto.SubjectDTO, 0, len(subjects))
	for _, s := range subjects {
		ns := strings.TrimSpace(s.Namespace)
		if s.Kind == rbacv1.ServiceAccountKind && ns == "" {
			ns = bindingNamespace
		}
		out = append(out, dto.SubjectDTO{
			Kind:      strings.TrimSpace(s.Kind),
			Name:      strings.TrimSpace(s.Name),
			Namespace: ns,
		})
	}
	return out
}

func cleanStringSlice(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		val := strings.TrimSpace(item)
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// objectYAML renders obj the way `kubectl get -o yaml` does, minus
// managedFields. Typed objects returned by the clientset carry no
// apiVersion/kind, so kind is set explicitly.
func objectYAML(obj runtime.Object, kind string) ([]byte, error) {
	obj = obj.DeepCopyObject()
	obj.GetObjectKind().SetGroupVersionKind(rbacv1.SchemeGroupVersion.WithKind(kind))
	if accessor, err := meta.Accessor(obj); err == nil {
		accessor.SetManagedFields(nil)
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(b)
}
