package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable menu item. Prices are stored in cents.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	Category     string    `gorm:"size:80;not null;index" json:"category"`
	PriceCents   int64     `gorm:"not null" json:"price_cents"`
	Available    bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
