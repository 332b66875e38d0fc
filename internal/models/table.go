package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableFree     = "free"
	TableOccupied = "occupied"
)

// Table is a physical restaurant table. An occupied table has exactly one open comanda.
type Table struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tables_restaurant_number" json:"-"`
	Number       int       `gorm:"not null;uniqueIndex:idx_tables_restaurant_number" json:"number"`
	Status       string    `gorm:"size:20;not null;default:'free'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
