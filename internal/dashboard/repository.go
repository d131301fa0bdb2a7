package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a pgx-backed RepositoryPort.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) CountBills(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bills`).Scan(&count); err != nil {
		return 0, fmt.Errorf("dashboard: count bills: %w", err)
	}
	return count, nil
}

func (r *repository) SumSales(ctx context.Context) (float64, error) {
	var total float64
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0) FROM bills`).Scan(&total); err != nil {
		return 0, fmt.Errorf("dashboard: sum sales: %w", err)
	}
	return total, nil
}

func (r *repository) SumStock(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(stock), 0) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("dashboard: sum stock: %w", err)
	}
	return total, nil
}

// BillTotalsBetween returns raw creation timestamps and amounts. Day
// bucketing happens in the service so the calendar zone is decided in one
// place, not by the Postgres session timezone.
func (r *repository) BillTotalsBetween(ctx context.Context, from, to time.Time) ([]BillTotal, error) {
	const query = `SELECT created_at, total_amount
		FROM bills WHERE created_at >= $1 AND created_at <= $2`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: bill totals: %w", err)
	}
	defer rows.Close()

	totals := make([]BillTotal, 0)
	for rows.Next() {
		var bt BillTotal
		if err := rows.Scan(&bt.CreatedAt, &bt.Amount); err != nil {
			return nil, fmt.Errorf("dashboard: scan bill total: %w", err)
		}
		totals = append(totals, bt)
	}
	return totals, rows.Err()
}
