package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

const dateLayout = "2006-01-02"

// Handler wires the report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.With(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager, auth.RoleStaff)).Get("/sales", h.sales)
	r.With(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager)).Get("/profit-loss", h.profitLoss)
	r.With(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager, auth.RoleStaff)).Get("/stock", h.stock)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	report, err := h.service.Sales(r.Context(), from, to, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Sales report generated successfully", report)
}

func (h *Handler) profitLoss(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ProfitLoss(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		h.logger.Error("profit loss report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Profit & loss report generated successfully", report)
}

func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	lowStockOnly := r.URL.Query().Get("lowStockOnly") == "true"
	report, err := h.service.Stock(r.Context(), lowStockOnly)
	if err != nil {
		h.logger.Error("stock report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Stock report generated successfully", report)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, httpx.ErrValidation)
	}
	return &t, nil
}
