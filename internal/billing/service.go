package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/catalog"
	"github.com/billfold/billfold/internal/httpx"
)

// RepositoryPort abstracts bill storage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filter ListFilter) ([]Bill, error)
	Get(ctx context.Context, id uuid.UUID) (Bill, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
}

// TxRepository is the transactional surface used during bill creation.
// Product rows are locked for the duration so concurrent sales of the same
// product cannot both pass the stock check.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	InsertBill(ctx context.Context, bill Bill) (Bill, error)
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// CustomerLedger records paid bills against the customer ledger. Failures
// are tolerated by the billing engine.
type CustomerLedger interface {
	RecordPayment(ctx context.Context, name, phone string) error
}

// Service implements the billing engine.
type Service struct {
	repo   RepositoryPort
	ledger CustomerLedger
	logger *slog.Logger

	now func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, ledger CustomerLedger, logger *slog.Logger) *Service {
	return &Service{repo: repo, ledger: ledger, logger: logger, now: time.Now}
}

// Create validates every line, persists the bill, and decrements stock, all
// inside a single transaction. A failure on any line leaves every product
// untouched.
func (s *Service) Create(ctx context.Context, req CreateBillRequest) (Bill, error) {
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return Bill{}, fmt.Errorf("Customer name is required: %w", httpx.ErrValidation)
	}
	if len(req.Items) == 0 {
		return Bill{}, fmt.Errorf("No products in bill: %w", httpx.ErrValidation)
	}

	var created Bill
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		var totalAmount float64
		items := make([]LineItem, 0, len(req.Items))

		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fmt.Errorf("Product not found: %s: %w", itemLabel(item), httpx.ErrNotFound)
			}
			product, err := tx.GetProductForUpdate(ctx, productID)
			if err != nil {
				return fmt.Errorf("Product not found: %s: %w", itemLabel(item), httpx.ErrNotFound)
			}
			if item.Qty <= 0 {
				return fmt.Errorf("invalid quantity for %s: %w", product.Name, httpx.ErrValidation)
			}
			if product.Stock < item.Qty {
				return fmt.Errorf("Not enough stock for %s. Available: %d, Requested: %d: %w",
					product.Name, product.Stock, item.Qty, httpx.ErrInsufficientStock)
			}

			itemTotal := float64(item.Qty) * item.Price
			totalAmount += itemTotal
			items = append(items, LineItem{
				ProductID: product.ID,
				Name:      product.Name,
				Qty:       item.Qty,
				Price:     item.Price,
				Total:     itemTotal,
			})
		}

		now := s.now()
		bill, err := tx.InsertBill(ctx, Bill{
			CustomerName:  customerName,
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Status:        StatusPending,
			Items:         items,
			TotalAmount:   totalAmount,
			Date:          now,
		})
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}

		created = bill
		return nil
	})
	if err != nil {
		return Bill{}, err
	}
	return created, nil
}

// List returns bills newest-created first, optionally filtered by a
// customer query and a status. The literal status "All" disables filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Bill, error) {
	if filter.Status == "All" {
		filter.Status = ""
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single bill with product references resolved.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Bill, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus sets the bill status. Transitioning to Paid also upserts the
// customer ledger; that side effect is logged on failure, never surfaced.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Bill, error) {
	if !ValidStatus(status) {
		return Bill{}, fmt.Errorf("Invalid status. Must be Paid, Pending, or Overdue: %w", httpx.ErrValidation)
	}

	bill, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return Bill{}, err
	}

	if status == StatusPaid && bill.CustomerName != "" && s.ledger != nil {
		if err := s.ledger.RecordPayment(ctx, bill.CustomerName, bill.CustomerPhone); err != nil {
			s.logger.Warn("record customer payment",
				slog.String("bill_id", bill.ID.String()), slog.Any("error", err))
		}
	}
	return bill, nil
}

// Delete removes a bill. Stock decremented at sale time is deliberately not
// restored.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func itemLabel(item CreateBillItemReq) string {
	if item.Name != "" {
		return item.Name
	}
	return item.ProductID
}
