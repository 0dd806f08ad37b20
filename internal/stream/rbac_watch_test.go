package stream

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"rbacview/internal/cluster"
	"rbacview/internal/kube/dto"
)

type testFrame struct {
	Active string          `json:"active"`
	Item   dto.SnapshotDTO `json:"item"`
	Error  string          `json:"error"`
}

func dial(t *testing.T, cs *fake.Clientset, query string) *websocket.Conn {
	t.Helper()

	h := &RBACWatch{Mgr: cluster.NewManagerForClients("fake", cs), Log: logr.Discard()}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) testFrame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	var f testFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestRBACWatchPushesSnapshots(t *testing.T) {
	cs := fake.NewClientset(
		&rbacv1.Role{ObjectMeta: metav1.ObjectMeta{
			Name: "kiali-viewer", Namespace: "default",
			CreationTimestamp: metav1.NewTime(time.Now().Add(-3 * time.Hour)),
		}},
	)
	conn := dial(t, cs, "namespace=default&interval=1s")

	first := readFrame(t, conn)
	require.Equal(t, "fake", first.Active)
	require.Empty(t, first.Error)
	require.Equal(t, []dto.RoleListItemDTO{
		{Name: "kiali-viewer", Namespace: "default", Age: "3h"},
	}, first.Item.Roles)

	_, err := cs.RbacV1().ClusterRoles().Create(t.Context(), &rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{Name: "admin"},
	}, metav1.CreateOptions{})
	require.NoError(t, err)

	second := readFrame(t, conn)
	require.Len(t, second.Item.ClusterRoles, 1)
	require.Equal(t, "admin", second.Item.ClusterRoles[0].Name)
}

func TestRBACWatchReportsErrors(t *testing.T) {
	cs := fake.NewClientset()
	cs.PrependReactor("list", "roles", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewBadRequest("bad namespace")
	})
	conn := dial(t, cs, "namespace=default")

	f := readFrame(t, conn)
	require.Equal(t, "request failed", f.Error)
	require.Empty(t, f.Item.Roles)
}

func TestErrorPhrase(t *testing.T) {
	gr := schema.GroupResource{Group: "rbac.authorization.k8s.io", Resource: "roles"}

	require.Equal(t, "forbidden", errorPhrase(apierrors.NewForbidden(gr, "", errors.New("nope"))))
	require.Equal(t, "not found", errorPhrase(apierrors.NewNotFound(gr, "x")))
	require.Equal(t, "unauthorized", errorPhrase(apierrors.NewUnauthorized("token expired")))
	require.Equal(t, "request failed", errorPhrase(errors.New("dial tcp 10.0.0.1:6443: connection refused")))
}

func TestParseInterval(t *testing.T) {
	require.Equal(t, defaultInterval, parseInterval(""))
	require.Equal(t, defaultInterval, parseInterval("soon"))
	require.Equal(t, minInterval, parseInterval("10ms"))
	require.Equal(t, maxInterval, parseInterval("1h"))
	require.Equal(t, 15*time.Second, parseInterval("15s"))
}
