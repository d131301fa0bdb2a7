package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueSweep flips stale Pending bills to Overdue.
	TaskOverdueSweep = "billing:overdue_sweep"
	// TaskLowStockScan logs products at or below the low-stock threshold.
	TaskLowStockScan = "catalog:low_stock_scan"
)

// SweepPayload carries scheduling metadata for periodic tasks.
type SweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewOverdueSweepTask constructs an Asynq task for the overdue sweep.
func NewOverdueSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueSweep, body, asynq.Queue(QueueDefault)), nil
}

// NewLowStockScanTask constructs an Asynq task for the low-stock scan.
func NewLowStockScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, body, asynq.Queue(QueueDefault)), nil
}
