package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billfold/billfold/internal/catalog"
	"github.com/billfold/billfold/internal/httpx"
	"github.com/billfold/billfold/internal/platform/db"
)

const billColumns = `id, customer_name, customer_phone, status, total_amount, date, created_at, updated_at`

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a pgx-backed RepositoryPort.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE 1=1`
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += fmt.Sprintf(` AND (customer_name ILIKE $%d OR customer_phone ILIKE $%d)`, len(args), len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("billing: list bills: %w", err)
	}
	defer rows.Close()

	bills, err := scanBills(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Bill, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
	var b Bill
	err := row.Scan(&b.ID, &b.CustomerName, &b.CustomerPhone, &b.Status, &b.TotalAmount,
		&b.Date, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, fmt.Errorf("Invoice not found: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return Bill{}, fmt.Errorf("billing: get bill: %w", err)
	}
	bills := []Bill{b}
	if err := r.attachItems(ctx, bills); err != nil {
		return Bill{}, err
	}
	return bills[0], nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Bill, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bills SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return Bill{}, fmt.Errorf("billing: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Bill{}, fmt.Errorf("Bill not found: %w", httpx.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// MarkOverdue flips Pending bills created before the cutoff to Overdue and
// reports how many changed.
func (r *repository) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bills SET status = $1, updated_at = $2 WHERE status = $3 AND created_at < $4`,
		StatusOverdue, time.Now(), StatusPending, before)
	if err != nil {
		return 0, fmt.Errorf("billing: mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("billing: delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("Bill not found: %w", httpx.ErrNotFound)
	}
	return nil
}

// attachItems loads line items for the given bills, resolving the live
// product when it still exists.
func (r *repository) attachItems(ctx context.Context, bills []Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(bills))
	index := make(map[uuid.UUID]int, len(bills))
	for i := range bills {
		bills[i].Items = make([]LineItem, 0)
		ids[i] = bills[i].ID
		index[bills[i].ID] = i
	}

	const query = `SELECT bi.bill_id, bi.product_id, bi.name, bi.qty, bi.price, bi.total,
			p.id, p.name, p.category, p.barcode
		FROM bill_items bi
		LEFT JOIN products p ON p.id = bi.product_id
		WHERE bi.bill_id = ANY($1)
		ORDER BY bi.line_order`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("billing: load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var billID uuid.UUID
		var item LineItem
		var refID *uuid.UUID
		var refName, refCategory, refBarcode *string
		if err := rows.Scan(&billID, &item.ProductID, &item.Name, &item.Qty, &item.Price, &item.Total,
			&refID, &refName, &refCategory, &refBarcode); err != nil {
			return fmt.Errorf("billing: scan item: %w", err)
		}
		if refID != nil {
			item.Product = &ProductRef{ID: *refID, Name: deref(refName), Category: deref(refCategory), Barcode: deref(refBarcode)}
		}
		i := index[billID]
		bills[i].Items = append(bills[i].Items, item)
	}
	return rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) GetProductForUpdate(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	const query = `SELECT id, name, category, purchase_price, selling_price, stock, barcode, created_at, updated_at
		FROM products WHERE id = $1 FOR UPDATE`
	var p catalog.Product
	err := t.tx.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Category, &p.PurchasePrice,
		&p.SellingPrice, &p.Stock, &p.Barcode, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("billing: lock product: %w", err)
	}
	return p, nil
}

func (t *txRepository) InsertBill(ctx context.Context, bill Bill) (Bill, error) {
	now := time.Now()
	bill.ID = uuid.New()
	bill.CreatedAt = now
	bill.UpdatedAt = now
	if bill.Date.IsZero() {
		bill.Date = now
	}
	_, err := t.tx.Exec(ctx,
		`INSERT INTO bills (`+billColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		bill.ID, bill.CustomerName, bill.CustomerPhone, bill.Status, bill.TotalAmount,
		bill.Date, now, now)
	if err != nil {
		return Bill{}, fmt.Errorf("billing: insert bill: %w", err)
	}

	for i, item := range bill.Items {
		_, err := t.tx.Exec(ctx,
			`INSERT INTO bill_items (bill_id, product_id, name, qty, price, total, line_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			bill.ID, item.ProductID, item.Name, item.Qty, item.Price, item.Total, i+1)
		if err != nil {
			return Bill{}, fmt.Errorf("billing: insert bill item: %w", err)
		}
	}
	return bill, nil
}

func (t *txRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3`,
		qty, time.Now(), productID)
	if err != nil {
		return fmt.Errorf("billing: decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanBills(rows pgx.Rows) ([]Bill, error) {
	bills := make([]Bill, 0)
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.CustomerName, &b.CustomerPhone, &b.Status, &b.TotalAmount,
			&b.Date, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("billing: scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
