package auth

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

// Repository persists user accounts.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a pgx-backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user User) (User, error) {
	const query = `INSERT INTO users (id, name, email, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.Role, user.PasswordHash, now, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, fmt.Errorf("user already exists: %w", httpx.ErrDuplicate)
		}
		return User{}, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT id, name, email, role, password_hash, created_at, updated_at
		FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	const query = `SELECT id, name, email, role, password_hash, created_at, updated_at
		FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *repository) scanOne(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user: %w", httpx.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("auth: scan user: %w", err)
	}
	return u, nil
}
