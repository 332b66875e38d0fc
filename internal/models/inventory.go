package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StockIn     = "in"
	StockOut    = "out"
	StockAdjust = "adjust"
)

// InventoryItem tracks stock of an ingredient or supply.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	Unit         string    `gorm:"size:20;not null;default:'un'" json:"unit"`
	Quantity     int64     `gorm:"not null;default:0" json:"quantity"`
	MinQuantity  int64     `gorm:"not null;default:0" json:"min_quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockMovement is the append-only history behind an item's quantity.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Reason    string    `gorm:"size:255" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
