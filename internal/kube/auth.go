package kube

import (
	"context"
	"fmt"
	"strings"

	authorizationv1 "k8s.io/api/authorization/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/view"
)

// AccessReviewRequest asks whether the current user may perform Verb on an
// RBAC kind. Namespace is ignored for cluster-scoped kinds.
type AccessReviewRequest struct {
	Verb      string
	Kind      view.Kind
	Namespace string
}

type AccessReviewResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// resources maps a kind to its resource name in the rbac API group.
var resources = map[view.Kind]string{
	view.KindRole:               "roles",
	view.KindClusterRole:        "clusterroles",
	view.KindRoleBinding:        "rolebindings",
	view.KindClusterRoleBinding: "clusterrolebindings",
}

func SelfSubjectAccessReview(ctx context.Context, c *cluster.Clients, req AccessReviewRequest) (AccessReviewResult, error) {
	resource, ok := resources[req.Kind]
	if !ok {
		return AccessReviewResult{}, fmt.Errorf("unsupported resource kind %q", req.Kind)
	}
	verb := strings.TrimSpace(req.Verb)
	if verb == "" {
		verb = "list"
	}

	attrs := &authorizationv1.ResourceAttributes{
		Verb:     verb,
		Resource: resource,
		Group:    rbacv1.GroupName,
	}
	if req.Kind.Namespaced() {
		attrs.Namespace = req.Namespace
	}

	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: attrs,
		},
	}

	res, err := c.Clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return AccessReviewResult{}, fmt.Errorf("create selfsubjectaccessreview: %w", err)
	}

	return AccessReviewResult{
		Allowed: res.Status.Allowed,
		Reason:  res.Status.Reason,
	}, nil
}
