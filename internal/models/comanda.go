package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ComandaOpen   = "open"
	ComandaPaid   = "paid"
	ComandaVoided = "voided"
)

// Comanda is an open tab tied to a table, accumulating line items until it is paid
// at the cash register or voided.
type Comanda struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID     `gorm:"type:uuid;not null;index" json:"-"`
	TableID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"table_id"`
	Status       string        `gorm:"size:20;not null;default:'open';index" json:"status"`
	OpenedAt     time.Time     `gorm:"not null" json:"opened_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
	Items        []ComandaItem `gorm:"foreignKey:ComandaID" json:"items"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ComandaItem is one line on a comanda. Quantity never drops below one; removing a
// line is an explicit operation.
type ComandaItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ComandaID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	ProductID      *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Name           string     `gorm:"size:150;not null" json:"name"`
	Quantity       int        `gorm:"not null;default:1" json:"quantity"`
	UnitPriceCents int64      `gorm:"not null" json:"unit_price_cents"`
	Note           string     `gorm:"size:255" json:"note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SubtotalCents sums quantity times unit price across all items.
func (c *Comanda) SubtotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += int64(item.Quantity) * item.UnitPriceCents
	}
	return total
}

// ClampQuantity enforces the one-item floor: the quantity controls can never take a
// line to zero, only an explicit remove can.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// SaleTotalCents applies the restaurant's service charge (basis points) on top of the
// subtotal.
func SaleTotalCents(subtotalCents, serviceChargeBps int64) int64 {
	return subtotalCents + subtotalCents*serviceChargeBps/10000
}
