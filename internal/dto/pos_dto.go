package dto

import (
	"time"

	"github.com/google/uuid"
)

type OpenRegisterRequest struct {
	OpeningCents int64 `json:"opening_cents" validate:"gte=0"`
}

type MovementRequest struct {
	Type        string `json:"type" validate:"required,oneof=deposit withdrawal"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Description string `json:"description"`
}

type FinalizeSaleRequest struct {
	ComandaID uuid.UUID `json:"comanda_id" validate:"required"`
}

type SaleResponse struct {
	ComandaID          uuid.UUID `json:"comanda_id"`
	SubtotalCents      int64     `json:"subtotal_cents"`
	ServiceChargeCents int64     `json:"service_charge_cents"`
	TotalCents         int64     `json:"total_cents"`
	BalanceCents       int64     `json:"balance_cents"`
	PaidAt             time.Time `json:"paid_at"`
}
