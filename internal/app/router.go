package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/claimflow/claimflow/internal/auth"
	"github.com/claimflow/claimflow/internal/claims"
	"github.com/claimflow/claimflow/internal/finance"
	"github.com/claimflow/claimflow/internal/lecturers"
	"github.com/claimflow/claimflow/internal/observability"
	"github.com/claimflow/claimflow/internal/rbac"
	"github.com/claimflow/claimflow/internal/shared"
	"github.com/claimflow/claimflow/internal/validation"
	"github.com/claimflow/claimflow/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	AuthHandler       *auth.Handler
	ClaimsHandler     *claims.Handler
	LecturersHandler  *lecturers.Handler
	FinanceHandler    *finance.Handler
	ValidationHandler *validation.Handler
	RBACHandler       *rbac.Handler
	JobsHandler       *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with claimflow defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/claims", params.ClaimsHandler.MountRoutes)
	r.Route("/lecturers", params.LecturersHandler.MountRoutes)
	r.Route("/finance", params.FinanceHandler.MountRoutes)
	r.Route("/validation", params.ValidationHandler.MountRoutes)
	r.Route("/rbac", params.RBACHandler.MountRoutes)
	if params.JobsHandler != nil {
		r.Route("/jobs", params.JobsHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
