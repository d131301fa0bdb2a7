package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/reports"
)

type fakeRepo struct {
	bills      int
	sales      float64
	stock      int
	billTotals []BillTotal
	sumCalls   int
	totalsFrom time.Time
	totalsTo   time.Time
}

func (r *fakeRepo) CountBills(ctx context.Context) (int, error) { return r.bills, nil }

func (r *fakeRepo) SumSales(ctx context.Context) (float64, error) {
	r.sumCalls++
	return r.sales, nil
}

func (r *fakeRepo) SumStock(ctx context.Context) (int, error) { return r.stock, nil }

func (r *fakeRepo) BillTotalsBetween(ctx context.Context, from, to time.Time) ([]BillTotal, error) {
	r.totalsFrom, r.totalsTo = from, to
	return r.billTotals, nil
}

type fakeProfit struct {
	report reports.ProfitLossReport
}

func (p *fakeProfit) ProfitLoss(ctx context.Context, period string) (reports.ProfitLossReport, error) {
	return p.report, nil
}

func TestStatsFansOutAllCounters(t *testing.T) {
	repo := &fakeRepo{bills: 12, sales: 3400.5, stock: 87}
	profit := &fakeProfit{report: reports.ProfitLossReport{Profit: 812.25}}
	svc := NewService(repo, profit, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, Stats{TotalSales: 3400.5, Profit: 812.25, TotalBills: 12, TotalStock: 87}, stats)
}

func TestStatsServedFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepo{bills: 1, sales: 100}
	svc := NewService(repo, &fakeProfit{}, NewCache(client, time.Minute))

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)

	// Underlying totals change, but the cached snapshot is still served.
	repo.sales = 999
	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.sumCalls)

	mr.FastForward(2 * time.Minute)
	third, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 999.0, third.TotalSales, 0.0001)
	require.Equal(t, 2, repo.sumCalls)
}

func TestWeeklySalesSevenChronologicalDays(t *testing.T) {
	// Saturday 2026-08-15; the window starts the prior Sunday.
	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{billTotals: []BillTotal{
		{CreatedAt: time.Date(2026, time.August, 9, 9, 0, 0, 0, time.UTC), Amount: 100.4}, // Sunday
		{CreatedAt: time.Date(2026, time.August, 9, 18, 0, 0, 0, time.UTC), Amount: 20},   // same Sunday
		{CreatedAt: time.Date(2026, time.August, 12, 12, 0, 0, 0, time.UTC), Amount: 80.5},
		{CreatedAt: time.Date(2026, time.August, 15, 8, 0, 0, 0, time.UTC), Amount: 300},
	}}
	svc := NewService(repo, &fakeProfit{}, nil)
	svc.now = func() time.Time { return now }

	series, err := svc.WeeklySales(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 7)

	require.Equal(t, []WeeklyPoint{
		{Day: "Sun", Sales: 120},
		{Day: "Mon", Sales: 0},
		{Day: "Tue", Sales: 0},
		{Day: "Wed", Sales: 81},
		{Day: "Thu", Sales: 0},
		{Day: "Fri", Sales: 0},
		{Day: "Sat", Sales: 300},
	}, series)

	require.Equal(t, time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC), repo.totalsFrom)
	require.Equal(t, time.Date(2026, time.August, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), repo.totalsTo)
}

func TestWeeklySalesBucketsInClockZone(t *testing.T) {
	// 19:30 UTC on the 14th is already the 15th at UTC+05:30; the bill must
	// land in today's bucket, not yesterday's.
	ist := time.FixedZone("UTC+0530", 5*3600+1800)
	now := time.Date(2026, time.August, 15, 9, 0, 0, 0, ist) // Saturday
	repo := &fakeRepo{billTotals: []BillTotal{
		{CreatedAt: time.Date(2026, time.August, 14, 19, 30, 0, 0, time.UTC), Amount: 250},
	}}
	svc := NewService(repo, &fakeProfit{}, nil)
	svc.now = func() time.Time { return now }

	series, err := svc.WeeklySales(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 7)
	require.Equal(t, WeeklyPoint{Day: "Fri", Sales: 0}, series[5])
	require.Equal(t, WeeklyPoint{Day: "Sat", Sales: 250}, series[6])
}
