package catalog

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

// Handler wires HTTP endpoints for the product catalog.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers product routes. Reads are open to any authenticated
// user; writes require admin or manager.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(h.mw.Authenticate)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireRoles(auth.RoleAdmin, auth.RoleManager))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/stock", h.setStock)
	})
}

type productRequest struct {
	Name          string   `json:"name" validate:"required"`
	Category      string   `json:"category" validate:"required"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"required,gte=0"`
	SellingPrice  *float64 `json:"sellingPrice" validate:"required,gte=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Barcode       string   `json:"barcode"`
}

type stockRequest struct {
	Stock *int `json:"stock"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Products retrieved successfully", products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Product retrieved successfully", product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeProduct(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, "Product created successfully", product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	input, err := h.decodeProduct(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Product updated successfully", product)
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
	httpx.OK(w, "Product deleted successfully", nil)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req stockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("invalid request body: %w", httpx.ErrValidation))
		return
	}
	product, err := h.service.SetStock(r.Context(), id, req.Stock)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, "Stock updated successfully", product)
}

func (h *Handler) decodeProduct(r *http.Request) (CreateProductInput, error) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return CreateProductInput{}, fmt.Errorf("invalid request body: %w", httpx.ErrValidation)
	}
	if err := h.validator.Struct(req); err != nil {
		return CreateProductInput{}, fmt.Errorf("%s: %w", err.Error(), httpx.ErrValidation)
	}
	return CreateProductInput{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: *req.PurchasePrice,
		SellingPrice:  *req.SellingPrice,
		Stock:         req.Stock,
		Barcode:       req.Barcode,
	}, nil
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", httpx.ErrValidation)
	}
	return id, nil
}
