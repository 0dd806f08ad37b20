package stream

import (
	"context"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"rbacview/internal/cluster"
	"rbacview/internal/kube"
)

const (
	defaultInterval = 5 * time.Second
	minInterval     = time.Second
	maxInterval     = time.Minute

	pingPeriod = 20 * time.Second
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is one message sent to a watch client. Exactly one of Item and
// Error is set.
type Frame struct {
	Active string `json:"active,omitempty"`
	Item   any    `json:"item,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RBACWatch pushes a freshly converted RBAC snapshot to the client every
// interval until the client goes away.
type RBACWatch struct {
	Mgr *cluster.Manager
	Log logr.Logger
}

func (h *RBACWatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ns := r.URL.Query().Get("namespace")
	interval := parseInterval(r.URL.Query().Get("interval"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error(err, "websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads are only needed to process control frames and notice a close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log := h.Log.WithValues("namespace", ns, "interval", interval)
	log.V(1).Info("watch started")
	defer log.V(1).Info("watch stopped")

	refresh := time.NewTicker(interval)
	defer refresh.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		if err := h.push(logr.NewContext(ctx, log), conn, ns); err != nil {
			return
		}
		if !h.wait(ctx, conn, refresh.C, ping.C) {
			return
		}
	}
}

// wait blocks until the next refresh tick, pinging the client meanwhile. It
// returns false once the watch should stop.
func (h *RBACWatch) wait(ctx context.Context, conn *websocket.Conn, refresh, ping <-chan time.Time) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-refresh:
			return true
		case <-ping:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return false
			}
		}
	}
}

// push sends one frame. Only a failed write is returned: API errors are
// reported to the client and the watch keeps going.
func (h *RBACWatch) push(ctx context.Context, conn *websocket.Conn, ns string) error {
	frame := Frame{}

	clients, active, err := h.Mgr.GetClients(ctx)
	frame.Active = active
	if err == nil {
		var snap *kube.Snapshot
		snap, err = kube.LoadSnapshot(ctx, clients, ns)
		if err == nil {
			frame.Item = snap.DTO()
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logr.FromContextOrDiscard(ctx).Error(err, "load snapshot")
		frame.Error = errorPhrase(err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(frame)
}

// errorPhrase is what a client sees for a failed load; the full error is
// only logged.
func errorPhrase(err error) string {
	switch {
	case apierrors.IsForbidden(err):
		return "forbidden"
	case apierrors.IsNotFound(err):
		return "not found"
	case apierrors.IsUnauthorized(err):
		return "unauthorized"
	default:
		return "request failed"
	}
}

func parseInterval(v string) time.Duration {
	if v == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultInterval
	}
	if d < minInterval {
		return minInterval
	}
	if d > maxInterval {
		return maxInterval
	}
	return d
}
