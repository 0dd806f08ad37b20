package kube

import (
	"context"

	"golang.org/x/sync/errgroup"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
	"rbacview/internal/view"
)

// Snapshot holds every RBAC object visible in one namespace (or all
// namespaces) plus the cluster-scoped ones, converted at a single instant.
type Snapshot struct {
	Namespace           string
	Roles               []view.RoleView
	ClusterRoles        []view.ClusterRoleView
	RoleBindings        []view.RoleBindingView
	ClusterRoleBindings []view.ClusterRoleBindingView
	// Forbidden lists the kinds the current user may not list. Their slices
	// are empty.
	Forbidden []view.Kind
}

// LoadSnapshot fetches the four RBAC kinds concurrently. A forbidden kind
// does not fail the snapshot; any other error does.
func LoadSnapshot(ctx context.Context, c *cluster.Clients, namespace string) (*Snapshot, error) {
	var (
		roles               []rbacv1.Role
		clusterRoles        []rbacv1.ClusterRole
		roleBindings        []rbacv1.RoleBinding
		clusterRoleBindings []rbacv1.ClusterRoleBinding
		forbidden           [4]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		roles, err = listRoles(gctx, c, namespace)
		return tolerateForbidden(err, &forbidden[0])
	})
	g.Go(func() (err error) {
		clusterRoles, err = listClusterRoles(gctx, c)
		return tolerateForbidden(err, &forbidden[1])
	})
	g.Go(func() (err error) {
		roleBindings, err = listRoleBindings(gctx, c, namespace)
		return tolerateForbidden(err, &forbidden[2])
	})
	g.Go(func() (err error) {
		clusterRoleBindings, err = listClusterRoleBindings(gctx, c)
		return tolerateForbidden(err, &forbidden[3])
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := nowFunc()
	s := &Snapshot{
		Namespace:           namespace,
		Roles:               view.ConvertList(roles, now, view.NewRoleView),
		ClusterRoles:        view.ConvertList(clusterRoles, now, view.NewClusterRoleView),
		RoleBindings:        view.ConvertList(roleBindings, now, view.NewRoleBindingView),
		ClusterRoleBindings: view.ConvertList(clusterRoleBindings, now, view.NewClusterRoleBindingView),
	}
	for i, denied := range forbidden {
		if denied {
			s.Forbidden = append(s.Forbidden, view.Kinds[i])
		}
	}
	return s, nil
}

func (s *Snapshot) DTO() dto.SnapshotDTO {
	out := dto.SnapshotDTO{
		Namespace:           s.Namespace,
		Roles:               dto.FromRoleViews(s.Roles),
		ClusterRoles:        dto.FromClusterRoleViews(s.ClusterRoles),
		RoleBindings:        dto.FromRoleBindingViews(s.RoleBindings),
		ClusterRoleBindings: dto.FromClusterRoleBindingViews(s.ClusterRoleBindings),
	}
	for _, k := range s.Forbidden {
		out.Forbidden = append(out.Forbidden, string(k))
	}
	return out
}

func tolerateForbidden(err error, denied *bool) error {
	if apierrors.IsForbidden(err) {
		*denied = true
		return nil
	}
	return err
}
