package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billfold/billfold/internal/httpx"
)

const productColumns = `id, name, category, purchase_price, selling_price, stock, barcode, created_at, updated_at`

// Repository persists products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	ExistsBarcode(ctx context.Context, barcode string) (bool, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id uuid.UUID, product Product) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) (Product, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *repository) ExistsBarcode(ctx context.Context, barcode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE barcode = $1)`, barcode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("catalog: check barcode: %w", err)
	}
	return exists, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	now := time.Now()
	product.ID = uuid.New()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Category, product.PurchasePrice,
		product.SellingPrice, product.Stock, product.Barcode, now, now)
	if err != nil {
		return Product{}, translateError("create product", err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	query := `UPDATE products
		SET name = $1, category = $2, purchase_price = $3, selling_price = $4, stock = $5, barcode = $6, updated_at = $7
		WHERE id = $8
		RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query,
		product.Name, product.Category, product.PurchasePrice,
		product.SellingPrice, product.Stock, product.Barcode, time.Now(), id))
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) SetStock(ctx context.Context, id uuid.UUID, stock int) (Product, error) {
	query := `UPDATE products SET stock = $1, updated_at = $2 WHERE id = $3 RETURNING ` + productColumns
	return scanProduct(r.db.QueryRow(ctx, query, stock, time.Now(), id))
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SellingPrice,
		&p.Stock, &p.Barcode, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("Product not found: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return Product{}, translateError("scan product", err)
	}
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SellingPrice,
			&p.Stock, &p.Barcode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("Barcode already exists: %w", httpx.ErrDuplicate)
	}
	return fmt.Errorf("catalog: %s: %w", op, err)
}
