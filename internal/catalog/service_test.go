package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/httpx"
)

type memoryRepo struct {
	products map[uuid.UUID]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[uuid.UUID]Product)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return Product{}, fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
}

func (r *memoryRepo) ExistsBarcode(ctx context.Context, barcode string) (bool, error) {
	for _, p := range r.products {
		if p.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	if exists, _ := r.ExistsBarcode(ctx, product.Barcode); exists {
		return Product{}, fmt.Errorf("Barcode already exists: %w", httpx.ErrDuplicate)
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	existing, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
	}
	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return product, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
	}
	p.Stock = stock
	r.products[id] = p
	return p, nil
}

func TestCreateGeneratesBarcodeWhenAbsent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{Name: "Soap", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15})
	require.NoError(t, err)
	require.Len(t, product.Barcode, 6)
	require.GreaterOrEqual(t, product.Barcode, "100000")
	require.LessOrEqual(t, product.Barcode, "999999")

	second, err := svc.Create(ctx, CreateProductInput{Name: "Shampoo", Category: "Toiletries", PurchasePrice: 50, SellingPrice: 80})
	require.NoError(t, err)
	require.NotEqual(t, product.Barcode, second.Barcode)
}

func TestCreateRetriesBarcodeOnceOnCollision(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Soap", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15, Barcode: "111111"})
	require.NoError(t, err)

	// First candidate collides, second is distinct.
	candidates := []string{"111111", "222222"}
	svc.barcode = func() string {
		next := candidates[0]
		candidates = candidates[1:]
		return next
	}

	product, err := svc.Create(ctx, CreateProductInput{Name: "Shampoo", Category: "Toiletries", PurchasePrice: 50, SellingPrice: 80})
	require.NoError(t, err)
	require.Equal(t, "222222", product.Barcode)
	require.Empty(t, candidates)
}

func TestCreateAcceptsSecondCandidateEvenIfColliding(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Soap", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15, Barcode: "111111"})
	require.NoError(t, err)

	// Both candidates collide; the second is used anyway and the storage
	// unique index rejects it.
	svc.barcode = func() string { return "111111" }

	_, err = svc.Create(ctx, CreateProductInput{Name: "Shampoo", Category: "Toiletries", PurchasePrice: 50, SellingPrice: 80})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateExplicitBarcodeDuplicate(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{Name: "Soap", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15, Barcode: "123456"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateProductInput{Name: "Soap 2", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15, Barcode: "123456"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestSetStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{Name: "Soap", Category: "Toiletries", PurchasePrice: 10, SellingPrice: 15, Stock: 3})
	require.NoError(t, err)

	_, err = svc.SetStock(ctx, product.ID, nil)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.SetStock(ctx, uuid.New(), intPtr(7))
	require.ErrorIs(t, err, httpx.ErrNotFound)

	updated, err := svc.SetStock(ctx, product.ID, intPtr(0))
	require.NoError(t, err)
	require.Equal(t, 0, updated.Stock)
}

func intPtr(v int) *int { return &v }
