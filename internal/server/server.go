// Package server implements the REST backend the movement form talks to:
// form config, accounts, movement create/read/update and income creation.
// Writes persist locally first and then notify a downstream syncer; when
// the syncer fails, the response is 503 with a warning body. The data is
// saved, only downstream sync is deferred.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osanchezp/casaflow/internal/auth"
	"github.com/osanchezp/casaflow/internal/storage"
)

// Downstream receives post-persist notifications so writes can be
// replicated to the household's external sync target. An error does not
// undo the write; it degrades the response to 503.
type Downstream interface {
	Sync(ctx context.Context, kind, id string) error
}

// NopDownstream accepts every notification.
type NopDownstream struct{}

func (NopDownstream) Sync(context.Context, string, string) error { return nil }

// Server is the casaflow HTTP API server.
type Server struct {
	store          storage.Store
	tokens         *auth.TokenManager
	downstream     Downstream
	metricsEnabled bool
}

// New creates an API server. A nil downstream disables sync notifications.
func New(store storage.Store, tokens *auth.TokenManager, downstream Downstream) *Server {
	if downstream == nil {
		downstream = NopDownstream{}
	}
	return &Server{store: store, tokens: tokens, downstream: downstream}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(requestLogger)
	r.Use(countRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(s.tokens))

		r.Get("/movement-form-config", s.handleFormConfig)
		r.Get("/accounts", s.handleAccounts)
		r.Get("/movements", s.handleListMovements)
		r.Post("/movements", s.handleCreateMovement)
		r.Get("/movements/{id}", s.handleGetMovement)
		r.Patch("/movements/{id}", s.handleUpdateMovement)
		r.Post("/income", s.handleCreateIncome)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
