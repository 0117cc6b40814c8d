// Package httptransport assembles the HTTP surface: routing, middleware
// order, and the operational endpoints that stay outside authentication.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	grouphandler "guesense/internal/group/handler"
	merchanthandler "guesense/internal/merchant/handler"
	"guesense/internal/platform/middleware"
)

// Deps carries everything the router mounts.
type Deps struct {
	Merchants *merchanthandler.Handler
	Groups    *grouphandler.Handler
	Verifier  *middleware.TokenVerifier
	Logger    *slog.Logger
}

// NewRouter wires all endpoints. Health and metrics stay outside the
// authenticated group; everything else requires an operator token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Verifier, deps.Logger))
		deps.Merchants.Register(r)
		deps.Groups.Register(r)
	})

	return r
}
