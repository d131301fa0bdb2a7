package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/billfold/billfold/internal/catalog"
)

// ProductLister is the slice of the catalog the scan needs.
type ProductLister interface {
	List(ctx context.Context) ([]catalog.Product, error)
}

// NewLowStockScanHandler logs every product at or below the low-stock
// threshold so operators see restock candidates in the worker log.
func NewLowStockScanHandler(products ProductLister, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		all, err := products.List(ctx)
		if err != nil {
			logger.Error("low stock scan", slog.Any("error", err))
			return err
		}
		low := 0
		for _, p := range all {
			if p.Stock > catalog.LowStockThreshold {
				continue
			}
			low++
			logger.Warn("low stock",
				slog.String("product", p.Name),
				slog.String("barcode", p.Barcode),
				slog.Int("stock", p.Stock))
		}
		logger.Info("low stock scan", slog.Int("products", len(all)), slog.Int("low", low))
		return nil
	}
}
