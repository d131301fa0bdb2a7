package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/auth"
	"github.com/billfold/billfold/internal/httpx"
)

type fakeEnqueuer struct {
	sweeps int
	scans  int
	err    error
}

func (f *fakeEnqueuer) EnqueueOverdueSweep(ctx context.Context) (*asynq.TaskInfo, error) {
	f.sweeps++
	return &asynq.TaskInfo{}, f.err
}

func (f *fakeEnqueuer) EnqueueLowStockScan(ctx context.Context) (*asynq.TaskInfo, error) {
	f.scans++
	return &asynq.TaskInfo{}, f.err
}

func TestTriggerOverdueSweepEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	h := NewHandler(nil, enq, auth.Middleware{}, slog.Default())

	rec := httptest.NewRecorder()
	h.triggerOverdueSweep(rec, httptest.NewRequest(http.MethodPost, "/jobs/overdue-sweep", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, enq.sweeps)

	var envelope httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Equal(t, "Overdue sweep enqueued", envelope.Message)
}

func TestTriggerLowStockScanEnqueues(t *testing.T) {
	enq := &fakeEnqueuer{}
	h := NewHandler(nil, enq, auth.Middleware{}, slog.Default())

	rec := httptest.NewRecorder()
	h.triggerLowStockScan(rec, httptest.NewRequest(http.MethodPost, "/jobs/low-stock-scan", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, enq.scans)
}

func TestTriggerSurfacesEnqueueFailure(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("queue down")}
	h := NewHandler(nil, enq, auth.Middleware{}, slog.Default())

	rec := httptest.NewRecorder()
	h.triggerOverdueSweep(rec, httptest.NewRequest(http.MethodPost, "/jobs/overdue-sweep", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTriggerWithoutEnqueuerUnavailable(t *testing.T) {
	h := NewHandler(nil, nil, auth.Middleware{}, slog.Default())

	rec := httptest.NewRecorder()
	h.triggerLowStockScan(rec, httptest.NewRequest(http.MethodPost, "/jobs/low-stock-scan", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
