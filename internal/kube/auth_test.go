package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	authorizationv1 "k8s.io/api/authorization/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"

	"rbacview/internal/view"
)

func TestSelfSubjectAccessReview(t *testing.T) {
	c, cs := newTestClients()

	var got *authorizationv1.ResourceAttributes
	cs.PrependReactor("create", "selfsubjectaccessreviews", func(action k8stesting.Action) (bool, runtime.Object, error) {
		review := action.(k8stesting.CreateAction).GetObject().(*authorizationv1.SelfSubjectAccessReview)
		got = review.Spec.ResourceAttributes
		review = review.DeepCopy()
		review.Status = authorizationv1.SubjectAccessReviewStatus{Allowed: true, Reason: "bound to view"}
		return true, review, nil
	})

	res, err := SelfSubjectAccessReview(context.Background(), c, AccessReviewRequest{
		Kind:      view.KindClusterRoleBinding,
		Namespace: "ignored",
	})
	require.NoError(t, err)
	require.Equal(t, AccessReviewResult{Allowed: true, Reason: "bound to view"}, res)
	require.Equal(t, &authorizationv1.ResourceAttributes{
		Verb:     "list",
		Resource: "clusterrolebindings",
		Group:    rbacv1.GroupName,
	}, got)

	_, err = SelfSubjectAccessReview(context.Background(), c, AccessReviewRequest{
		Verb: "get", Kind: view.KindRole, Namespace: "default",
	})
	require.NoError(t, err)
	require.Equal(t, "default", got.Namespace)
	require.Equal(t, "roles", got.Resource)

	_, err = SelfSubjectAccessReview(context.Background(), c, AccessReviewRequest{Kind: "Pod"})
	require.Error(t, err)
}
