package customers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

// Handler wires HTTP endpoints for the customer ledger.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers customer routes. Reads only; customers are written
// exclusively by the billing engine.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.Get("/search", h.search)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.logger.Error("search customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Customers retrieved successfully", results)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Customers retrieved successfully", results)
}
