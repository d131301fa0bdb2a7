package dashboard

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/billfold/billfold/internal/reports"
)

const statsCacheKey = "dashboard:stats"

// dayNames follows the Sunday-first convention, indexed by time.Weekday.
var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Stats holds the dashboard top-line counters.
type Stats struct {
	TotalSales float64 `json:"totalSales"`
	Profit     float64 `json:"profit"`
	TotalBills int     `json:"totalBills"`
	TotalStock int     `json:"totalStock"`
}

// WeeklyPoint is one day in the 7-day sales series.
type WeeklyPoint struct {
	Day   string  `json:"day"`
	Sales float64 `json:"sales"`
}

// BillTotal is one bill's creation time and amount for day bucketing.
type BillTotal struct {
	CreatedAt time.Time
	Amount    float64
}

// RepositoryPort abstracts the scalar aggregates behind the dashboard.
type RepositoryPort interface {
	CountBills(ctx context.Context) (int, error)
	SumSales(ctx context.Context) (float64, error)
	SumStock(ctx context.Context) (int, error)
	BillTotalsBetween(ctx context.Context, from, to time.Time) ([]BillTotal, error)
}

// ProfitSource supplies the all-time profit figure. The reporting engine
// already owns that calculation.
type ProfitSource interface {
	ProfitLoss(ctx context.Context, period string) (reports.ProfitLossReport, error)
}

// Service aggregates the dashboard counters and the weekly sales series.
type Service struct {
	repo   RepositoryPort
	profit ProfitSource
	cache  *Cache

	now func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, profit ProfitSource, cache *Cache) *Service {
	return &Service{repo: repo, profit: profit, cache: cache, now: time.Now}
}

// Stats fans the four counters out concurrently and caches the combined
// result briefly; the dashboard polls and exact freshness does not matter.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.cache.FetchJSON(ctx, statsCacheKey, &stats, func(ctx context.Context) (interface{}, error) {
		return s.loadStats(ctx)
	})
	return stats, err
}

func (s *Service) loadStats(ctx context.Context) (Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.repo.SumSales(ctx)
		stats.TotalSales = total
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountBills(ctx)
		stats.TotalBills = count
		return err
	})
	g.Go(func() error {
		total, err := s.repo.SumStock(ctx)
		stats.TotalStock = total
		return err
	})
	g.Go(func() error {
		report, err := s.profit.ProfitLoss(ctx, reports.PeriodAll)
		stats.Profit = report.Profit
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// WeeklySales returns exactly 7 entries covering today and the prior six
// calendar days, in chronological order, with empty days as 0 and totals
// rounded to the nearest whole amount. Calendar days follow the clock's
// zone for both bucketing and labeling.
func (s *Service) WeeklySales(ctx context.Context) ([]WeeklyPoint, error) {
	now := s.now()
	start := startOfDay(now.AddDate(0, 0, -6))
	end := endOfDay(now)

	bills, err := s.repo.BillTotalsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, 7)
	for _, b := range bills {
		totals[b.CreatedAt.In(now.Location()).Format("2006-01-02")] += b.Amount
	}

	points := make([]WeeklyPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		points = append(points, WeeklyPoint{
			Day:   dayNames[int(day.Weekday())],
			Sales: math.Round(totals[day.Format("2006-01-02")]),
		})
	}
	return points, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
