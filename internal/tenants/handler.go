package tenants

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/execboard/internal/platform/db"
	"github.com/odyssey-erp/execboard/internal/platform/httpx"
)

// ErrNotConfigured is returned when no database connection is configured.
var ErrNotConfigured = errors.New("tenants: database not configured")

// Handler exposes the tenant directory passthrough.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the directory route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/tenant-directory", h.handleDirectory)
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Directory(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var connErr *db.ConnectionError
	switch {
	case errors.Is(err, ErrNotConfigured):
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUnavailable, err))
	case errors.As(err, &connErr):
		h.logger.Warn("tenants: database unreachable", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrUnavailable, connErr.Error()))
	default:
		h.logger.Error("tenants: load directory", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}
