package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is the tenant unit. Every domain row is scoped by restaurant_id and the
// owner's subscription governs access for the whole staff.
type Restaurant struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name             string    `gorm:"size:150;not null" json:"name"`
	Slug             string    `gorm:"size:150;not null;uniqueIndex" json:"slug"`
	ServiceChargeBps int64     `gorm:"not null;default:1000" json:"service_charge_bps"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
