package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/billfold/billfold/internal/httpx"
)

const customerColumns = `id, name, phone, last_bill_date, total_bills, created_at, updated_at`

// Repository persists ledger customers.
type Repository interface {
	Search(ctx context.Context, term string, limit int) ([]Customer, error)
	List(ctx context.Context, limit int) ([]Customer, error)
	// FindMatch looks up a customer by (name AND phone), falling back to
	// phone alone. Returns ErrNotFound when neither matches.
	FindMatch(ctx context.Context, name, phone string) (Customer, error)
	Create(ctx context.Context, customer Customer) (Customer, error)
	RecordBill(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Search(ctx context.Context, term string, limit int) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE name ILIKE $1 OR phone ILIKE $1
		ORDER BY last_bill_date DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("customers: search: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (r *repository) List(ctx context.Context, limit int) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_bill_date DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (r *repository) FindMatch(ctx context.Context, name, phone string) (Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE (name = $1 AND phone = $2) OR phone = $2
		ORDER BY (name = $1 AND phone = $2) DESC
		LIMIT 1`
	var c Customer
	err := r.db.QueryRow(ctx, query, name, phone).Scan(
		&c.ID, &c.Name, &c.Phone, &c.LastBillDate, &c.TotalBills, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, fmt.Errorf("customer: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return Customer{}, fmt.Errorf("customers: find match: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, customer Customer) (Customer, error) {
	now := time.Now()
	customer.ID = uuid.New()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if customer.LastBillDate.IsZero() {
		customer.LastBillDate = now
	}
	if customer.TotalBills == 0 {
		customer.TotalBills = 1
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO customers (`+customerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customer.ID, customer.Name, customer.Phone, customer.LastBillDate, customer.TotalBills, now, now)
	if err != nil {
		return Customer{}, fmt.Errorf("customers: create: %w", err)
	}
	return customer, nil
}

func (r *repository) RecordBill(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET total_bills = total_bills + 1, last_bill_date = $1, updated_at = $1 WHERE id = $2`,
		at, id)
	if err != nil {
		return fmt.Errorf("customers: record bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanCustomers(rows pgx.Rows) ([]Customer, error) {
	customers := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.LastBillDate, &c.TotalBills, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("customers: scan: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
