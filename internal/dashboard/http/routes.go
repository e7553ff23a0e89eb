package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/execboard/internal/platform/httpx"
)

// MountRoutes registers the dashboard API onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(h.filterLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, "Too Many Requests", "filter updates are rate limited")
		}),
	)

	r.Route("/api", func(api chi.Router) {
		api.Get("/periods", h.handlePeriods)
		api.Get("/filters", h.handleFilters)
		api.Group(func(gr chi.Router) {
			gr.Use(limiter)
			gr.Put("/filters/tenant", h.handleSetTenant)
			gr.Put("/filters/entities", h.handleSetEntities)
			gr.Put("/filters/period", h.handleSetPeriod)
		})
		api.Get("/overview", h.handleOverview)
		api.Get("/sections/{id}", h.handleSection)
		api.Get("/search", h.handleSearch)
		api.Get("/alerts", h.handleAlerts)
		api.Post("/alerts/{id}/read", h.handleMarkRead)
	})
}
