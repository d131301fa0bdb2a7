package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/billfold/billfold/internal/billing"
	"github.com/billfold/billfold/internal/catalog"
)

// Period tokens accepted by the profit & loss report.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodAll     = "all"
)

// allTimeEpoch bounds "all" period queries; nothing in the system predates it.
var allTimeEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RepositoryPort abstracts the read-only queries behind the reports.
type RepositoryPort interface {
	BillsBetween(ctx context.Context, from, to *time.Time, search string) ([]SalesBill, error)
	CostLines(ctx context.Context, from, to time.Time) ([]CostLine, error)
	Products(ctx context.Context) ([]catalog.Product, error)
}

// Service computes the sales, profit & loss, and stock reports.
type Service struct {
	repo RepositoryPort

	now func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Sales aggregates bills inside the inclusive [from, to] day window. Bounds
// are optional; a bound that is present is widened to cover its whole
// calendar day.
func (s *Service) Sales(ctx context.Context, from, to *time.Time, search string) (SalesReport, error) {
	if from != nil {
		f := startOfDay(*from)
		from = &f
	}
	if to != nil {
		t := endOfDay(*to)
		to = &t
	}

	bills, err := s.repo.BillsBetween(ctx, from, to, search)
	if err != nil {
		return SalesReport{}, err
	}

	var total float64
	for i := range bills {
		bills[i].InvoiceCode = billing.InvoiceCode(bills[i].ID)
		total += bills[i].TotalAmount
	}

	avg := 0.0
	if len(bills) > 0 {
		avg = total / float64(len(bills))
	}
	return SalesReport{
		TotalSales:   round2(total),
		Count:        len(bills),
		AvgSaleValue: round2(avg),
		Bills:        bills,
	}, nil
}

// ProfitLoss totals sale revenue against purchase cost for the given period.
// Items whose product was deleted, or whose product carries no purchase
// price, are left out of the math.
func (s *Service) ProfitLoss(ctx context.Context, period string) (ProfitLossReport, error) {
	period, from := s.periodStart(period)
	lines, err := s.repo.CostLines(ctx, from, endOfDay(s.now()))
	if err != nil {
		return ProfitLossReport{}, err
	}

	var totalSales, totalPurchase float64
	for _, l := range lines {
		if l.PurchasePrice == 0 {
			continue
		}
		totalSales += float64(l.Qty) * l.Price
		totalPurchase += float64(l.Qty) * l.PurchasePrice
	}

	profit := totalSales - totalPurchase
	percent := 0.0
	if totalSales != 0 {
		percent = profit / totalSales * 100
	}
	return ProfitLossReport{
		TotalSales:    round2(totalSales),
		TotalPurchase: round2(totalPurchase),
		Profit:        round2(profit),
		ProfitPercent: fmt.Sprintf("%.2f", percent),
		Period:        period,
	}, nil
}

// Stock reports per-product stock levels. The low-stock filter narrows the
// rows only; the summary always covers the whole catalog.
func (s *Service) Stock(ctx context.Context, lowStockOnly bool) (StockReport, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return StockReport{}, err
	}

	summary := StockSummary{TotalProducts: len(products)}
	rows := make([]StockRow, 0, len(products))
	for _, p := range products {
		low := p.Stock <= catalog.LowStockThreshold
		if low {
			summary.LowStockCount++
		}
		summary.TotalStockValue += float64(p.Stock) * p.PurchasePrice

		if lowStockOnly && !low {
			continue
		}
		status := "In Stock"
		if low {
			status = "Low Stock"
		}
		category := p.Category
		if category == "" {
			category = "N/A"
		}
		rows = append(rows, StockRow{
			Name:          p.Name,
			Category:      category,
			Stock:         p.Stock,
			SellingPrice:  p.SellingPrice,
			PurchasePrice: p.PurchasePrice,
			Status:        status,
			Barcode:       p.Barcode,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Stock < rows[j].Stock })

	summary.TotalStockValue = round2(summary.TotalStockValue)
	return StockReport{Products: rows, Summary: summary}, nil
}

// periodStart resolves a period token to its normalized name and the start
// of its window. Unknown tokens fall back to all-time.
func (s *Service) periodStart(period string) (string, time.Time) {
	now := s.now()
	switch period {
	case PeriodMonth:
		return period, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodQuarter:
		month := time.Month((int(now.Month())-1)/3*3 + 1)
		return period, time.Date(now.Year(), month, 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		return period, time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return PeriodAll, allTimeEpoch
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
