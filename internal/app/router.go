package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dashboardhttp "github.com/odyssey-erp/execboard/internal/dashboard/http"
	"github.com/odyssey-erp/execboard/internal/observability"
	"github.com/odyssey-erp/execboard/internal/platform/httpx"
	"github.com/odyssey-erp/execboard/internal/tenants"
	"github.com/odyssey-erp/execboard/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Metrics          *observability.Metrics
	DashboardHandler *dashboardhttp.Handler
	TenantsHandler   *tenants.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with execboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	params.DashboardHandler.MountRoutes(r)
	if params.TenantsHandler != nil {
		params.TenantsHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" is not supported here")
	})
	return r
}
