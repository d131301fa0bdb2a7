package billing

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

// Handler wires HTTP endpoints for the billing engine. Request validation
// lives in the service, which owns the line-by-line stock checks.
type Handler struct {
	logger  *slog.Logger
	service *Service
	mw      auth.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw}
}

// MountRoutes registers billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.With(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager, auth.RoleStaff)).Post("/", h.create)
	r.With(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager)).Put("/{id}/status", h.updateStatus)
	r.With(h.mw.RequireRoles(auth.RoleAdmin)).Delete("/{id}", h.delete)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
		return
	}

	bill, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Bill created successfully", bill)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Query:  r.URL.Query().Get("query"),
		Status: r.URL.Query().Get("status"),
	}
	bills, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list bills", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Bills retrieved successfully", bills)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	bill, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Bill retrieved successfully", bill)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
		return
	}
	bill, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Bill status updated successfully", bill)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Bill deleted successfully", nil)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("Invoice not found: %w", httpx.ErrNotFound)
	}
	return id, nil
}
