package dealers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

// Handler wires HTTP endpoints for dealer reference data.
type Handler struct {
	logger    *slog.Logger
	repo      Repository
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, mw: mw, validator: validator.New()}
}

// MountRoutes registers dealer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type dealerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	City  string `json:"city"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("list dealers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Dealers retrieved successfully", dealers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dealer, err := h.repo.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Dealer retrieved successfully", dealer)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dealer, err := h.repo.Create(r.Context(), Dealer{Name: req.Name, Phone: req.Phone, Email: req.Email, City: req.City})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Dealer added successfully", dealer)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.decode(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	dealer, err := h.repo.Update(r.Context(), id, Dealer{Name: req.Name, Phone: req.Phone, Email: req.Email, City: req.City})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Dealer updated successfully", dealer)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.repo.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Dealer deleted successfully", nil)
}

func (h *Handler) decode(r *http.Request) (dealerRequest, error) {
	var req dealerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return dealerRequest{}, fmt.Errorf("invalid request body: %w", httpx.ErrValidation)
	}
	if err := h.validator.Struct(req); err != nil {
		return dealerRequest{}, fmt.Errorf("%s: %w", err.Error(), httpx.ErrValidation)
	}
	return req, nil
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", httpx.ErrValidation)
	}
	return id, nil
}
