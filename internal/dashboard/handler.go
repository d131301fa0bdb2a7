package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

// Handler wires the dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/stats", h.stats)
	r.Get("/weekly-sales", h.weeklySales)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("dashboard stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Dashboard stats retrieved successfully", stats)
}

func (h *Handler) weeklySales(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.WeeklySales(r.Context())
	if err != nil {
		h.logger.Error("weekly sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Weekly sales retrieved successfully", series)
}
