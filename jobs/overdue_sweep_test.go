package jobs

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/catalog"
)

type fakeMarker struct {
	cutoff  time.Time
	changed int64
}

func (m *fakeMarker) MarkOverdue(ctx context.Context, before time.Time) (int64, error) {
	m.cutoff = before
	return m.changed, nil
}

type fakeLister struct {
	products []catalog.Product
}

func (l *fakeLister) List(ctx context.Context) ([]catalog.Product, error) {
	return l.products, nil
}

func TestOverdueSweepUsesGraceCutoff(t *testing.T) {
	marker := &fakeMarker{changed: 3}
	handler := NewOverdueSweepHandler(marker, 720*time.Hour, slog.Default())

	task, err := NewOverdueSweepTask(time.Now())
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))

	want := time.Now().Add(-720 * time.Hour)
	require.WithinDuration(t, want, marker.cutoff, 5*time.Second)
}

func TestOverdueSweepRejectsMalformedPayload(t *testing.T) {
	marker := &fakeMarker{}
	handler := NewOverdueSweepHandler(marker, time.Hour, slog.Default())

	err := handler(context.Background(), asynq.NewTask(TaskOverdueSweep, []byte("{not json")))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.True(t, marker.cutoff.IsZero())
}

func TestLowStockScanHandlesEmptyCatalog(t *testing.T) {
	handler := NewLowStockScanHandler(&fakeLister{}, slog.Default())

	task, err := NewLowStockScanTask(time.Now())
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
}
