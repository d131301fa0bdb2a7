package customers

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/httpx"
)

type memoryRepo struct {
	customers []Customer
}

func (r *memoryRepo) Search(ctx context.Context, term string, limit int) ([]Customer, error) {
	term = strings.ToLower(term)
	out := make([]Customer, 0)
	for _, c := range r.customers {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Phone), term) {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memoryRepo) List(ctx context.Context, limit int) ([]Customer, error) {
	if len(r.customers) > limit {
		return r.customers[:limit], nil
	}
	return r.customers, nil
}

func (r *memoryRepo) FindMatch(ctx context.Context, name, phone string) (Customer, error) {
	for _, c := range r.customers {
		if c.Name == name && c.Phone == phone {
			return c, nil
		}
	}
	for _, c := range r.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return Customer{}, fmt.Errorf("customer: %w", httpx.ErrNotFound)
}

func (r *memoryRepo) Create(ctx context.Context, customer Customer) (Customer, error) {
	customer.ID = uuid.New()
	r.customers = append(r.customers, customer)
	return customer, nil
}

func (r *memoryRepo) RecordBill(ctx context.Context, id uuid.UUID, at time.Time) error {
	for i, c := range r.customers {
		if c.ID == id {
			r.customers[i].TotalBills++
			r.customers[i].LastBillDate = at
			return nil
		}
	}
	return fmt.Errorf("customer: %w", httpx.ErrNotFound)
}

func TestRecordPaymentCreatesThenIncrements(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RecordPayment(ctx, "Asha", "9991112222"))
	require.Len(t, repo.customers, 1)
	require.Equal(t, 1, repo.customers[0].TotalBills)
	first := repo.customers[0].LastBillDate

	svc.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, svc.RecordPayment(ctx, "Asha", "9991112222"))
	require.Len(t, repo.customers, 1)
	require.Equal(t, 2, repo.customers[0].TotalBills)
	require.True(t, repo.customers[0].LastBillDate.After(first))
}

func TestRecordPaymentMatchesByPhoneAlone(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RecordPayment(ctx, "Asha", "9991112222"))
	// Different name, same phone: merges into the existing record.
	require.NoError(t, svc.RecordPayment(ctx, "A. Sharma", "9991112222"))
	require.Len(t, repo.customers, 1)
	require.Equal(t, 2, repo.customers[0].TotalBills)
	require.Equal(t, "Asha", repo.customers[0].Name)
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	repo := &memoryRepo{customers: []Customer{{Name: "Asha", Phone: "999"}}}
	svc := NewService(repo)

	results, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, results)
}
