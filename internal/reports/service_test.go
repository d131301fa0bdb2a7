package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/catalog"
)

type fakeRepo struct {
	bills    []SalesBill
	lines    []CostLine
	products []catalog.Product

	gotFrom, gotTo *time.Time
	costFrom       time.Time
	costTo         time.Time
}

func (r *fakeRepo) BillsBetween(ctx context.Context, from, to *time.Time, search string) ([]SalesBill, error) {
	r.gotFrom, r.gotTo = from, to
	return r.bills, nil
}

func (r *fakeRepo) CostLines(ctx context.Context, from, to time.Time) ([]CostLine, error) {
	r.costFrom, r.costTo = from, to
	return r.lines, nil
}

func (r *fakeRepo) Products(ctx context.Context) ([]catalog.Product, error) {
	return r.products, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 15, 14, 30, 0, 0, time.UTC)
}

func TestSalesReportTotalsAndWindow(t *testing.T) {
	repo := &fakeRepo{bills: []SalesBill{
		{ID: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), CustomerName: "Asha", TotalAmount: 150},
		{ID: uuid.New(), CustomerName: "Ravi", TotalAmount: 50},
	}}
	svc := NewService(repo)

	from := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)
	report, err := svc.Sales(context.Background(), &from, &to, "")
	require.NoError(t, err)

	require.InDelta(t, 200.0, report.TotalSales, 0.0001)
	require.Equal(t, 2, report.Count)
	require.InDelta(t, 100.0, report.AvgSaleValue, 0.0001)
	require.Equal(t, "INV-D430C8", report.Bills[0].InvoiceCode)

	// Bounds widen to the full calendar day.
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), *repo.gotFrom)
	require.Equal(t, time.Date(2024, time.January, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), *repo.gotTo)
}

func TestSalesReportEmpty(t *testing.T) {
	svc := NewService(&fakeRepo{})

	report, err := svc.Sales(context.Background(), nil, nil, "")
	require.NoError(t, err)
	require.Zero(t, report.TotalSales)
	require.Zero(t, report.Count)
	require.Zero(t, report.AvgSaleValue)
	require.Empty(t, report.Bills)
}

func TestProfitLossAllTime(t *testing.T) {
	repo := &fakeRepo{lines: []CostLine{
		{Qty: 2, Price: 100, PurchasePrice: 60},
		{Qty: 1, Price: 30, PurchasePrice: 0}, // no purchase price, excluded
	}}
	svc := NewService(repo)
	svc.now = fixedNow

	report, err := svc.ProfitLoss(context.Background(), "")
	require.NoError(t, err)

	require.Equal(t, PeriodAll, report.Period)
	require.InDelta(t, 200.0, report.TotalSales, 0.0001)
	require.InDelta(t, 120.0, report.TotalPurchase, 0.0001)
	require.InDelta(t, 80.0, report.Profit, 0.0001)
	require.Equal(t, "40.00", report.ProfitPercent)

	require.Equal(t, allTimeEpoch, repo.costFrom)
	require.Equal(t, time.Date(2026, time.August, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), repo.costTo)
}

func TestProfitLossZeroSales(t *testing.T) {
	svc := NewService(&fakeRepo{})
	svc.now = fixedNow

	report, err := svc.ProfitLoss(context.Background(), PeriodYear)
	require.NoError(t, err)
	require.Equal(t, "0.00", report.ProfitPercent)
	require.Zero(t, report.Profit)
}

func TestPeriodStart(t *testing.T) {
	svc := NewService(&fakeRepo{})
	svc.now = fixedNow // 2026-08-15, third quarter

	cases := []struct {
		token string
		want  time.Time
		name  string
	}{
		{PeriodMonth, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), PeriodMonth},
		{PeriodQuarter, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), PeriodQuarter},
		{PeriodYear, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodYear},
		{PeriodAll, allTimeEpoch, PeriodAll},
		{"bogus", allTimeEpoch, PeriodAll},
	}
	for _, tc := range cases {
		name, start := svc.periodStart(tc.token)
		require.Equal(t, tc.name, name, tc.token)
		require.Equal(t, tc.want, start, tc.token)
	}
}

func TestStockReport(t *testing.T) {
	repo := &fakeRepo{products: []catalog.Product{
		{Name: "Rice", Category: "Grocery", Stock: 12, SellingPrice: 55, PurchasePrice: 40, Barcode: "111111"},
		{Name: "Soap", Category: "", Stock: 3, SellingPrice: 15, PurchasePrice: 10, Barcode: "222222"},
		{Name: "Salt", Category: "Grocery", Stock: 5, SellingPrice: 8, PurchasePrice: 5, Barcode: "333333"},
	}}
	svc := NewService(repo)

	report, err := svc.Stock(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Products, 3)

	// Ascending stock order, threshold inclusive at 5.
	require.Equal(t, "Soap", report.Products[0].Name)
	require.Equal(t, "Low Stock", report.Products[0].Status)
	require.Equal(t, "N/A", report.Products[0].Category)
	require.Equal(t, "Low Stock", report.Products[1].Status)
	require.Equal(t, "In Stock", report.Products[2].Status)

	require.Equal(t, 3, report.Summary.TotalProducts)
	require.Equal(t, 2, report.Summary.LowStockCount)
	require.InDelta(t, 12*40+3*10+5*5.0, report.Summary.TotalStockValue, 0.0001)
}

func TestStockReportLowOnlyKeepsFullSummary(t *testing.T) {
	repo := &fakeRepo{products: []catalog.Product{
		{Name: "Rice", Category: "Grocery", Stock: 12, PurchasePrice: 40},
		{Name: "Soap", Category: "Care", Stock: 3, PurchasePrice: 10},
	}}
	svc := NewService(repo)

	report, err := svc.Stock(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	require.Equal(t, "Soap", report.Products[0].Name)

	require.Equal(t, 2, report.Summary.TotalProducts)
	require.Equal(t, 1, report.Summary.LowStockCount)
	require.InDelta(t, 12*40+3*10.0, report.Summary.TotalStockValue, 0.0001)
}
