package catalog

import (
	"time"

	"github.com/google/uuid"
)

// LowStockThreshold marks the stock level at or below which a product is
// reported as low stock.
const LowStockThreshold = 5

// Product is a catalog entry. Stock is decremented by the billing engine
// and is not floored at zero by this layer.
type Product struct {
	ID            uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	PurchasePrice float64   `json:"purchasePrice"`
	SellingPrice  float64   `json:"sellingPrice"`
	Stock         int       `json:"stock"`
	Barcode       string    `json:"barcode"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
