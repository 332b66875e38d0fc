package dto

import "time"

type CheckoutRequest struct {
	PriceID    string `json:"price_id"`
	Mode       string `json:"mode"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type CancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

type CancelSubscriptionResponse struct {
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
}

type AccessResponse struct {
	Active    bool   `json:"active"`
	Source    string `json:"source"`
	Status    string `json:"status,omitempty"`
	PlanID    string `json:"plan_id,omitempty"`
	PlanName  string `json:"plan_name,omitempty"`
	OwnerName string `json:"owner_name,omitempty"`
}

type SubscriptionResponse struct {
	Status             string     `json:"status"`
	PriceID            string     `json:"price_id,omitempty"`
	PlanName           string     `json:"plan_name,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	PaymentMethodBrand string     `json:"payment_method_brand,omitempty"`
	PaymentMethodLast4 string     `json:"payment_method_last4,omitempty"`
}
