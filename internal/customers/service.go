package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/billfold/billfold/internal/httpx"
)

// Service implements the customer ledger operations.
type Service struct {
	repo Repository

	now func() time.Time
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Search matches customers by name or phone substring, most recent billing
// first. An empty query yields an empty result rather than everything.
func (s *Service) Search(ctx context.Context, query string) ([]Customer, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []Customer{}, nil
	}
	return s.repo.Search(ctx, term, searchLimit)
}

// List returns the most recently billed customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx, listLimit)
}

// RecordPayment upserts the ledger entry for a paid bill: an existing
// customer (matched by name+phone, then phone alone) gets its counter
// bumped; otherwise a new record starts at one bill.
func (s *Service) RecordPayment(ctx context.Context, name, phone string) error {
	existing, err := s.repo.FindMatch(ctx, name, phone)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			return err
		}
		_, err = s.repo.Create(ctx, Customer{
			Name:         name,
			Phone:        phone,
			LastBillDate: s.now(),
			TotalBills:   1,
		})
		return err
	}
	return s.repo.RecordBill(ctx, existing.ID, s.now())
}
