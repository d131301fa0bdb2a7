package reports

import (
	"time"

	"github.com/google/uuid"
)

// SalesReport summarises bills inside a date window.
type SalesReport struct {
	TotalSales   float64     `json:"totalSales"`
	Count        int         `json:"count"`
	AvgSaleValue float64     `json:"avgSaleValue"`
	Bills        []SalesBill `json:"bills"`
}

// SalesBill is one bill row in the sales report, carrying the display
// invoice code.
type SalesBill struct {
	ID            uuid.UUID `json:"_id"`
	InvoiceCode   string    `json:"invoiceCode"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Status        string    `json:"status"`
	TotalAmount   float64   `json:"totalAmount"`
	Date          time.Time `json:"date"`
}

// ProfitLossReport aggregates sales against purchase cost for a period.
type ProfitLossReport struct {
	TotalSales    float64 `json:"totalSales"`
	TotalPurchase float64 `json:"totalPurchase"`
	Profit        float64 `json:"profit"`
	ProfitPercent string  `json:"profitPercent"`
	Period        string  `json:"period"`
}

// CostLine is one sold line item joined with the product's current
// purchase price. Lines whose product no longer exists are not produced.
type CostLine struct {
	Qty           int
	Price         float64
	PurchasePrice float64
}

// StockReport lists per-product stock rows plus a summary block.
type StockReport struct {
	Products []StockRow   `json:"products"`
	Summary  StockSummary `json:"summary"`
}

// StockRow is one product in the stock report.
type StockRow struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Stock         int     `json:"stock"`
	SellingPrice  float64 `json:"sellingPrice"`
	PurchasePrice float64 `json:"purchasePrice"`
	Status        string  `json:"status"`
	Barcode       string  `json:"barcode"`
}

// StockSummary carries the totals shown above the stock table. The low
// stock count is always computed over the full catalog, not the filtered
// rows.
type StockSummary struct {
	TotalProducts   int     `json:"totalProducts"`
	LowStockCount   int     `json:"lowStockCount"`
	TotalStockValue float64 `json:"totalStockValue"`
}
