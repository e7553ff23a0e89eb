// Package dashboardhttp serves the dashboard view model as a JSON API.
package dashboardhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/execboard/internal/dashboard"
	"github.com/odyssey-erp/execboard/internal/period"
	"github.com/odyssey-erp/execboard/internal/platform/httpx"
	"github.com/odyssey-erp/execboard/internal/tenants"
)

const (
	defaultWaitTimeout = 5 * time.Second
	defaultFilterLimit = 60
)

// Handler coordinates HTTP requests against the shared dashboard state.
type Handler struct {
	logger      *slog.Logger
	state       *dashboard.State
	overview    *dashboard.Overview
	waitTimeout time.Duration
	filterLimit int
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, state *dashboard.State, overview *dashboard.Overview) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		state:       state,
		overview:    overview,
		waitTimeout: defaultWaitTimeout,
		filterLimit: defaultFilterLimit,
	}
}

// WithFilterLimit sets the per-IP filter updates allowed per minute.
func (h *Handler) WithFilterLimit(perMinute int) {
	if perMinute > 0 {
		h.filterLimit = perMinute
	}
}

// WithWaitTimeout bounds how long ?wait=1 blocks for in-flight fetches.
func (h *Handler) WithWaitTimeout(d time.Duration) {
	if d > 0 {
		h.waitTimeout = d
	}
}

type filtersResponse struct {
	Filters       dashboard.Filters  `json:"filters"`
	Tenants       []tenants.Summary  `json:"tenants"`
	EntityOptions []dashboard.Entity `json:"entityOptions"`
	EntitySummary string             `json:"entitySummary"`
}

type tenantRequest struct {
	TenantID int64 `json:"tenantId" validate:"required,gt=0"`
}

type entitiesRequest struct {
	EntityIDs []string `json:"entityIds" validate:"required,dive,max=64"`
}

type periodRequest struct {
	PeriodID string `json:"periodId" validate:"required"`
}

type searchResponse struct {
	Query   string                    `json:"query"`
	Results []dashboard.SectionConfig `json:"results"`
}

type alertsResponse struct {
	Alerts []dashboard.Alert `json:"alerts"`
	Unread int               `json:"unread"`
}

func (h *Handler) filtersView() filtersResponse {
	directory := h.state.Directory()
	summaries := make([]tenants.Summary, 0, len(directory))
	for _, entry := range directory {
		summaries = append(summaries, tenants.Summary{ID: entry.TenantID, Name: entry.TenantName})
	}
	return filtersResponse{
		Filters:       h.state.Filters(),
		Tenants:       summaries,
		EntityOptions: h.state.EntityOptions(),
		EntitySummary: h.state.EntitySummary(),
	}
}

func (h *Handler) handlePeriods(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, period.Catalog())
}

func (h *Handler) handleFilters(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.filtersView())
}

func (h *Handler) handleSetTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.state.SetTenant(req.TenantID); err != nil {
		h.respondFilterError(w, err)
		return
	}
	h.logger.Info("dashboard: tenant selected", slog.Int64("tenant_id", req.TenantID))
	httpx.JSON(w, http.StatusOK, h.filtersView())
}

func (h *Handler) handleSetEntities(w http.ResponseWriter, r *http.Request) {
	var req entitiesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.state.SetEntitySelections(req.EntityIDs)
	httpx.JSON(w, http.StatusOK, h.filtersView())
}

func (h *Handler) handleSetPeriod(w http.ResponseWriter, r *http.Request) {
	var req periodRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.state.SetPeriod(req.PeriodID); err != nil {
		h.respondFilterError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.filtersView())
}

func (h *Handler) respondFilterError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrUnknownTenant) || errors.Is(err, dashboard.ErrUnknownPeriod) {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	h.logger.Error("dashboard: update filters", slog.Any("error", err))
	httpx.RespondError(w, err)
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
		err := h.overview.Wait(ctx)
		cancel()
		if err != nil {
			h.logger.Debug("dashboard: overview wait ended early", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, h.overview.Snapshot())
}

func (h *Handler) handleSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	section, ok := h.overview.Section(id)
	if !ok {
		httpx.RespondError(w, fmt.Errorf("section %q: %w", id, httpx.ErrNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, section)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	h.state.SetSearchQuery(query)
	httpx.JSON(w, http.StatusOK, searchResponse{Query: query, Results: dashboard.SearchSections(query)})
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, alertsResponse{Alerts: h.state.Alerts(), Unread: h.state.UnreadAlerts()})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.state.MarkAlertRead(id); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrNotFound, err))
		return
	}
	httpx.JSON(w, http.StatusOK, alertsResponse{Alerts: h.state.Alerts(), Unread: h.state.UnreadAlerts()})
}
