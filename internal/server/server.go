package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"rbacview/internal/cluster"
	"rbacview/internal/kube"
	"rbacview/internal/kube/dto"
	"rbacview/internal/stream"
	"rbacview/internal/view"
)

const (
	listTimeout   = 20 * time.Second
	detailTimeout = 15 * time.Second
)

type Server struct {
	mgr   *cluster.Manager
	token string
	log   logr.Logger
}

func New(mgr *cluster.Manager, token string, log logr.Logger) *Server {
	return &Server{mgr: mgr, token: token, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.logMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Protected API
	r.Route("/api", func(api chi.Router) {
		api.Use(s.authMiddleware)

		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"ok":            true,
				"activeContext": s.mgr.ActiveContext(),
			})
		})

		api.Get("/contexts", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"active":   s.mgr.ActiveContext(),
				"contexts": s.mgr.ListContexts(),
			})
		})

		api.Post("/context/select", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
				return
			}
			if err := s.mgr.SetActiveContext(body.Name); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			s.log.Info("active context changed", "context", body.Name)
			writeJSON(w, http.StatusOK, map[string]any{"active": s.mgr.ActiveContext()})
		})

		api.Post("/auth/can-i", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Verb      string `json:"verb"`
				Kind      string `json:"kind"`
				Namespace string `json:"namespace"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Kind == "" {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
				return
			}
			kind, err := view.ParseKind(body.Kind)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}

			s.withClients(10*time.Second, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
				res, err := kube.SelfSubjectAccessReview(ctx, c, kube.AccessReviewRequest{
					Verb:      body.Verb,
					Kind:      kind,
					Namespace: body.Namespace,
				})
				if err != nil {
					s.writeAPIError(w, r, err, active)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"active": active, "allowed": res.Allowed, "reason": res.Reason})
			})(w, r)
		})

		api.Get("/roles", s.withClients(listTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			items, err := kube.ListRoles(ctx, c, r.URL.Query().Get("namespace"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "items": dto.FromRoleViews(items)})
		}))

		api.Get("/roles/{ns}/{name}", s.withClients(detailTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			det, err := kube.GetRoleDetails(ctx, c, chi.URLParam(r, "ns"), chi.URLParam(r, "name"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": det})
		}))

		api.Get("/clusterroles", s.withClients(listTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			items, err := kube.ListClusterRoles(ctx, c)
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "items": dto.FromClusterRoleViews(items)})
		}))

		api.Get("/clusterroles/{name}", s.withClients(detailTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			det, err := kube.GetClusterRoleDetails(ctx, c, chi.URLParam(r, "name"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": det})
		}))

		api.Get("/rolebindings", s.withClients(listTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			items, err := kube.ListRoleBindings(ctx, c, r.URL.Query().Get("namespace"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "items": dto.FromRoleBindingViews(items)})
		}))

		api.Get("/rolebindings/{ns}/{name}", s.withClients(detailTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			det, err := kube.GetRoleBindingDetails(ctx, c, chi.URLParam(r, "ns"), chi.URLParam(r, "name"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": det})
		}))

		api.Get("/clusterrolebindings", s.withClients(listTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			items, err := kube.ListClusterRoleBindings(ctx, c)
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "items": dto.FromClusterRoleBindingViews(items)})
		}))

		api.Get("/clusterrolebindings/{name}", s.withClients(detailTimeout, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			det, err := kube.GetClusterRoleBindingDetails(ctx, c, chi.URLParam(r, "name"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": det})
		}))

		api.Get("/rbac/snapshot", s.withClients(30*time.Second, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
			snap, err := kube.LoadSnapshot(ctx, c, r.URL.Query().Get("namespace"))
			if err != nil {
				s.writeAPIError(w, r, err, active)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": snap.DTO()})
		}))

		api.Get("/rbac/subjects/{kind}/{name}", func(w http.ResponseWriter, r *http.Request) {
			kind, err := kube.ParseSubjectKind(chi.URLParam(r, "kind"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			ref := kube.SubjectRef{Kind: kind, Name: chi.URLParam(r, "name")}
			if kind == rbacv1.ServiceAccountKind {
				ref.Namespace = r.URL.Query().Get("namespace")
				if ref.Namespace == "" {
					ref.Namespace = s.mgr.DefaultNamespace()
				}
			}

			s.withClients(30*time.Second, func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string) {
				// Bindings in any namespace may grant to the subject.
				snap, err := kube.LoadSnapshot(ctx, c, metav1.NamespaceAll)
				if err != nil {
					s.writeAPIError(w, r, err, active)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"active": active, "item": kube.BindingsForSubject(snap, ref).DTO()})
			})(w, r)
		})

		api.Handle("/rbac/watch", &stream.RBACWatch{Mgr: s.mgr, Log: s.log.WithName("watch")})
	})

	return r
}

type clientsHandler func(ctx context.Context, w http.ResponseWriter, r *http.Request, c *cluster.Clients, active string)

// withClients resolves the active context's clients under a request timeout
// before calling next.
func (s *Server) withClients(timeout time.Duration, next clientsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		clients, active, err := s.mgr.GetClients(ctx)
		if err != nil {
			logr.FromContextOrDiscard(ctx).Error(err, "resolve clients", "context", active)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "active": active})
			return
		}
		next(ctx, w, r, clients, active)
	}
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error, active string) {
	status := http.StatusInternalServerError
	switch {
	case apierrors.IsForbidden(err):
		status = http.StatusForbidden
	case apierrors.IsNotFound(err):
		status = http.StatusNotFound
	}
	logr.FromContextOrDiscard(r.Context()).Error(err, "kubernetes request failed", "status", status)
	writeJSON(w, status, map[string]any{"error": err.Error(), "active": active})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.log.WithValues("method", r.Method, "path", r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logr.NewContext(r.Context(), log)))

		log.V(1).Info("request", "status", ww.Status(), "duration", time.Since(start))
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if strings.HasPrefix(token, "Bearer ") {
			token = strings.TrimPrefix(token, "Bearer ")
		} else {
			token = r.URL.Query().Get("token")
		}

		if token != s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if status >= http.StatusBadRequest {
		if payload, ok := v.(map[string]any); ok {
			if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
				payload["error"] = sanitizeErrorMessage(status)
				v = payload
			}
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitizeErrorMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "too many requests"
	default:
		return "request failed"
	}
}
