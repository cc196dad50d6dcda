/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  Routes come from the closed operation registry in ops.go, so the router
  can never expose an analysis the registry does not name.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/ops                  Operation index (discovery)
  /api/pulse/*              Revenue pulse
  /api/sales/*              Sales aggregates
  /api/profit/*             Profit aggregates
  /api/marketing/*          Marketing aggregates
  /api/inventory/*          Inventory aggregates
  /api/economics/*          Unit-economics tables
  /api/interpret/*          Interpretation reports
  /api/recommendations      Executive recommendations

SEE ALSO:
  - ops.go: the operation registry
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router exposing every registered operation under /api.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Session-ID"},
	}))

	specs := Registry(h)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ops", opsIndex(specs))
		for _, spec := range specs {
			r.Get(spec.Path, spec.Handler)
		}
	})

	return r
}
