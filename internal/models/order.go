package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only record of a completed one-time payment. Duplicate webhook
// deliveries are filtered upstream by WebhookEvent, and the unique checkout session id
// is a second guard against double inserts.
type Order struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CheckoutSessionID string    `gorm:"size:120;not null;uniqueIndex" json:"checkout_session_id"`
	StripeCustomerID  string    `gorm:"size:100;not null;index" json:"stripe_customer_id"`
	AmountSubtotal    int64     `json:"amount_subtotal"`
	AmountTotal       int64     `json:"amount_total"`
	Currency          string    `gorm:"size:8" json:"currency"`
	PaymentStatus     string    `gorm:"size:32;not null" json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
}
