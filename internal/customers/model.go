package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a lightweight record accumulated as a side effect of paid
// bills. It is never created directly through the API.
type Customer struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	LastBillDate time.Time `json:"lastBillDate"`
	TotalBills   int       `json:"totalBills"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	searchLimit = 10
	listLimit   = 50
)
