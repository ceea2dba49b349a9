// Package httpapi assembles the HTTP surface: public login and health
// endpoints, the metrics scrape, and the authenticated tenant-scoped API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aurum/internal/platform/metrics"
	"aurum/internal/platform/middleware"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// Deps collects everything the router wires together.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.TokenValidator

	// LoginLimit throttles the public group when set.
	LoginLimit func(http.Handler) http.Handler

	// Public registers ahead of auth (login).
	Public []Registrar
	// Authed registers behind the bearer-token middleware; every route is
	// implicitly tenant-scoped through the request context.
	Authed []Registrar
}

// NewRouter builds the chi router with the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(deps.Metrics.LatencyMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		if deps.LoginLimit != nil {
			r.Use(deps.LoginLimit)
		}
		for _, reg := range deps.Public {
			reg.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
		for _, reg := range deps.Authed {
			reg.Register(r)
		}
	})

	return r
}
