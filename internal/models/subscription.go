package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses mirror the Stripe enum, plus the local placeholder written
// before the first checkout completes.
const (
	SubscriptionStatusActive            = "active"
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusUnpaid            = "unpaid"
	SubscriptionStatusNotStarted        = "not_started"
)

// Subscription mirrors the gateway subscription for fast reads. Exactly one row per
// Stripe customer (upsert key). GatewayUpdatedAt is the ordering token: an upsert
// carrying an older gateway timestamp than the stored one is discarded, which keeps
// the webhook and manual-sync writers commutative.
type Subscription struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StripeCustomerID     string    `gorm:"size:100;not null;uniqueIndex" json:"stripe_customer_id"`
	StripeSubscriptionID string    `gorm:"size:100;index" json:"stripe_subscription_id"`
	PriceID              string    `gorm:"size:100" json:"price_id"`
	Status               string    `gorm:"size:32;not null;default:'not_started';index" json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd    bool       `gorm:"default:false" json:"cancel_at_period_end"`
	PaymentMethodBrand   string     `gorm:"size:32" json:"payment_method_brand,omitempty"`
	PaymentMethodLast4   string     `gorm:"size:4" json:"payment_method_last4,omitempty"`
	GatewayUpdatedAt     time.Time  `gorm:"not null" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
