package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// OverdueMarker is the slice of the billing store the sweep needs.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
}

// NewOverdueSweepHandler marks Pending bills older than the grace window
// as Overdue.
func NewOverdueSweepHandler(bills OverdueMarker, grace time.Duration, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		cutoff := time.Now().Add(-grace)
		changed, err := bills.MarkOverdue(ctx, cutoff)
		if err != nil {
			logger.Error("overdue sweep", slog.Any("error", err))
			return err
		}
		if changed > 0 {
			logger.Info("overdue sweep",
				slog.Int64("bills_marked", changed),
				slog.Time("cutoff", cutoff))
		}
		return nil
	}
}
