package dealers

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

const dealerColumns = `id, name, phone, email, city, created_at, updated_at`

// Repository persists dealers.
type Repository interface {
	List(ctx context.Context) ([]Dealer, error)
	Get(ctx context.Context, id uuid.UUID) (Dealer, error)
	Create(ctx context.Context, dealer Dealer) (Dealer, error)
	Update(ctx context.Context, id uuid.UUID, dealer Dealer) (Dealer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Dealer, error) {
	rows, err := r.db.Query(ctx, `SELECT `+dealerColumns+` FROM dealers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("dealers: list: %w", err)
	}
	defer rows.Close()

	dealers := make([]Dealer, 0)
	for rows.Next() {
		var d Dealer
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.City, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("dealers: scan: %w", err)
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Dealer, error) {
	return scanDealer(r.db.QueryRow(ctx, `SELECT `+dealerColumns+` FROM dealers WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, dealer Dealer) (Dealer, error) {
	now := time.Now()
	dealer.ID = uuid.New()
	dealer.CreatedAt = now
	dealer.UpdatedAt = now
	_, err := r.db.Exec(ctx,
		`INSERT INTO dealers (`+dealerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dealer.ID, dealer.Name, dealer.Phone, dealer.Email, dealer.City, now, now)
	if err != nil {
		return Dealer{}, translateError("create", err)
	}
	return dealer, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, dealer Dealer) (Dealer, error) {
	query := `UPDATE dealers SET name = $1, phone = $2, email = $3, city = $4, updated_at = $5
		WHERE id = $6 RETURNING ` + dealerColumns
	row := r.db.QueryRow(ctx, query, dealer.Name, dealer.Phone, dealer.Email, dealer.City, time.Now(), id)
	updated, err := scanDealer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Dealer{}, fmt.Errorf("Phone number already exists: %w", httpx.ErrDuplicate)
		}
		return Dealer{}, err
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM dealers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("dealers: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("Dealer not found: %w", httpx.ErrNotFound)
	}
	return nil
}

func scanDealer(row pgx.Row) (Dealer, error) {
	var d Dealer
	err := row.Scan(&d.ID, &d.Name, &d.Phone, &d.Email, &d.City, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dealer{}, fmt.Errorf("Dealer not found: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return Dealer{}, translateError("scan", err)
	}
	return d, nil
}

func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("Phone number already exists: %w", httpx.ErrDuplicate)
	}
	return fmt.Errorf("dealers: %s: %w", op, err)
}
