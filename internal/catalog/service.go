package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/httpx"
)

// CreateProductInput carries the fields accepted on product create/update.
type CreateProductInput struct {
	Name          string
	Category      string
	PurchasePrice float64
	SellingPrice  float64
	Stock         int
	Barcode       string
}

// Service implements catalog operations.
type Service struct {
	repo Repository

	// barcode generates a candidate 6-digit barcode. Overridable in tests.
	barcode func() string
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, barcode: randomBarcode}
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new product. A missing barcode is auto-generated; on
// collision with an existing barcode exactly one replacement is generated
// and used regardless, so the storage unique index has the final say.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (Product, error) {
	barcode := input.Barcode
	if barcode == "" {
		barcode = s.barcode()
		exists, err := s.repo.ExistsBarcode(ctx, barcode)
		if err != nil {
			return Product{}, err
		}
		if exists {
			barcode = s.barcode()
		}
	}

	return s.repo.Create(ctx, Product{
		Name:          input.Name,
		Category:      input.Category,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Stock:         input.Stock,
		Barcode:       barcode,
	})
}

// Update replaces the mutable fields of a product.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input CreateProductInput) (Product, error) {
	if input.Barcode == "" {
		return Product{}, fmt.Errorf("barcode is required: %w", httpx.ErrValidation)
	}
	return s.repo.Update(ctx, id, Product{
		Name:          input.Name,
		Category:      input.Category,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Stock:         input.Stock,
		Barcode:       input.Barcode,
	})
}

// Delete removes a product. Historical bills keep their line snapshots.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SetStock replaces the stock count unconditionally. The billing engine,
// not this operation, guards against overselling.
func (s *Service) SetStock(ctx context.Context, id uuid.UUID, stock *int) (Product, error) {
	if stock == nil {
		return Product{}, fmt.Errorf("Stock quantity is required: %w", httpx.ErrValidation)
	}
	return s.repo.SetStock(ctx, id, *stock)
}

func randomBarcode() string {
	return strconv.Itoa(100000 + rand.Intn(900000))
}
