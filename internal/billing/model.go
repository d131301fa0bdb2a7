package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bill statuses. There are no transition rules; any status may be set from
// any other.
const (
	StatusPaid    = "Paid"
	StatusPending = "Pending"
	StatusOverdue = "Overdue"
)

// ValidStatus reports whether status is one of the three known values.
func ValidStatus(status string) bool {
	switch status {
	case StatusPaid, StatusPending, StatusOverdue:
		return true
	}
	return false
}

// Bill is a sales transaction with snapshotted line items.
type Bill struct {
	ID            uuid.UUID  `json:"_id"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone,omitempty"`
	Status        string     `json:"status"`
	Items         []LineItem `json:"items"`
	TotalAmount   float64    `json:"totalAmount"`
	Date          time.Time  `json:"date"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LineItem snapshots one product sale at billing time. Name and price are
// frozen here; later catalog edits do not rewrite history.
type LineItem struct {
	ProductID uuid.UUID   `json:"productId"`
	Name      string      `json:"name"`
	Qty       int         `json:"qty"`
	Price     float64     `json:"price"`
	Total     float64     `json:"total"`
	Product   *ProductRef `json:"product,omitempty"`
}

// ProductRef carries the resolved live product fields for display. Nil when
// the product was deleted after the sale.
type ProductRef struct {
	ID       uuid.UUID `json:"_id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Barcode  string    `json:"barcode,omitempty"`
}

// InvoiceCode derives the display code: INV- plus the uppercased last six
// characters of the bill id.
func InvoiceCode(id uuid.UUID) string {
	s := id.String()
	return "INV-" + strings.ToUpper(s[len(s)-6:])
}
