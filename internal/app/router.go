package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gestor-pm/gestor/internal/auth"
	"github.com/gestor-pm/gestor/internal/clients"
	"github.com/gestor-pm/gestor/internal/collaborators"
	"github.com/gestor-pm/gestor/internal/observability"
	"github.com/gestor-pm/gestor/internal/projects"
	"github.com/gestor-pm/gestor/internal/quotations"
	"github.com/gestor-pm/gestor/internal/reports"
	"github.com/gestor-pm/gestor/internal/rigidcosts"
	"github.com/gestor-pm/gestor/internal/users"
	"github.com/gestor-pm/gestor/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	AuthMiddleware       *auth.Middleware
	AuthHandler          *auth.Handler
	UsersHandler         *users.Handler
	ClientsHandler       *clients.Handler
	CollaboratorsHandler *collaborators.Handler
	ProjectsHandler      *projects.Handler
	QuotationsHandler    *quotations.Handler
	RigidCostsHandler    *rigidcosts.Handler
	ReportsHandler       *reports.Handler
	JobsHandler          *jobs.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi router with the full API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r, params.AuthMiddleware)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)

			params.ClientsHandler.MountRoutes(r)
			params.CollaboratorsHandler.MountRoutes(r)
			params.ProjectsHandler.MountRoutes(r)
			params.QuotationsHandler.MountRoutes(r)
			params.RigidCostsHandler.MountRoutes(r)
			params.ReportsHandler.MountRoutes(r)
		})

		// Account administration is admin-only.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireUser)
			r.Use(params.AuthMiddleware.RequireAdmin)

			params.UsersHandler.MountRoutes(r)
			params.JobsHandler.MountRoutes(r)
		})
	})

	return r
}
