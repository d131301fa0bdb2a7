package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billfold/billfold/internal/catalog"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a pgx-backed RepositoryPort.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) BillsBetween(ctx context.Context, from, to *time.Time, search string) ([]SalesBill, error) {
	query := `SELECT id, customer_name, customer_phone, status, total_amount, date
		FROM bills WHERE 1=1`
	args := []any{}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(` AND (customer_name ILIKE $%d OR customer_phone ILIKE $%d)`, len(args), len(args))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reports: list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]SalesBill, 0)
	for rows.Next() {
		var b SalesBill
		if err := rows.Scan(&b.ID, &b.CustomerName, &b.CustomerPhone, &b.Status, &b.TotalAmount, &b.Date); err != nil {
			return nil, fmt.Errorf("reports: scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// CostLines joins sold items against live products. The inner join drops
// items whose product was deleted after the sale.
func (r *repository) CostLines(ctx context.Context, from, to time.Time) ([]CostLine, error) {
	const query = `SELECT bi.qty, bi.price, p.purchase_price
		FROM bills b
		JOIN bill_items bi ON bi.bill_id = b.id
		JOIN products p ON p.id = bi.product_id
		WHERE b.date >= $1 AND b.date <= $2`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("reports: cost lines: %w", err)
	}
	defer rows.Close()

	lines := make([]CostLine, 0)
	for rows.Next() {
		var l CostLine
		if err := rows.Scan(&l.Qty, &l.Price, &l.PurchasePrice); err != nil {
			return nil, fmt.Errorf("reports: scan cost line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) Products(ctx context.Context) ([]catalog.Product, error) {
	const query = `SELECT id, name, category, purchase_price, selling_price, stock, barcode, created_at, updated_at
		FROM products`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reports: list products: %w", err)
	}
	defer rows.Close()

	products := make([]catalog.Product, 0)
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice, &p.SellingPrice,
			&p.Stock, &p.Barcode, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("reports: scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
