package dealers

import (
	"time"

	"github.com/google/uuid"
)

// Dealer is a supplier contact record. Independent of every other entity.
type Dealer struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
