package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/billing"
	"github.com/billfold/billfold/internal/catalog"
	"github.com/billfold/billfold/internal/customers"
	"github.com/billfold/billfold/internal/dashboard"
	"github.com/billfold/billfold/internal/dealers"
	"github.com/billfold/billfold/internal/reports"
	"github.com/billfold/billfold/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthHandler      *auth.Handler
	CatalogHandler   *catalog.Handler
	DealerHandler    *dealers.Handler
	CustomerHandler  *customers.Handler
	BillingHandler   *billing.Handler
	ReportHandler    *reports.Handler
	DashboardHandler *dashboard.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with Billfold defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
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
	r.Route("/products", params.CatalogHandler.MountRoutes)
	r.Route("/dealers", params.DealerHandler.MountRoutes)
	r.Route("/customers", params.CustomerHandler.MountRoutes)
	r.Route("/billing", params.BillingHandler.MountRoutes)
	r.Route("/reports", params.ReportHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
