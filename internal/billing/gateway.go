package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/customer"
	"github.com/stripe/stripe-go/v78/price"
	"github.com/stripe/stripe-go/v78/subscription"
	"github.com/stripe/stripe-go/v78/webhook"
)

// CheckoutParams carries everything needed to open a hosted checkout page.
type CheckoutParams struct {
	CustomerID string
	Mode       string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// Gateway abstracts the payment provider so services can be tested with a fake.
type Gateway interface {
	GetPrice(id string) (*stripe.Price, error)
	CreateCustomer(name, email, userID string) (*stripe.Customer, error)
	DeleteCustomer(id string) error
	CreateCheckoutSession(p CheckoutParams) (*stripe.CheckoutSession, error)
	GetSubscription(id string) (*stripe.Subscription, error)
	LatestSubscription(customerID string) (*stripe.Subscription, error)
	CancelAtPeriodEnd(subscriptionID string) (*stripe.Subscription, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeGateway is the real Stripe-backed implementation.
type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) GetPrice(id string) (*stripe.Price, error) {
	return price.Get(id, nil)
}

func (g *StripeGateway) CreateCustomer(name, email, userID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.AddMetadata("user_id", userID)
	return customer.New(params)
}

func (g *StripeGateway) DeleteCustomer(id string) error {
	_, err := customer.Del(id, nil)
	return err
}

func (g *StripeGateway) CreateCheckoutSession(p CheckoutParams) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(p.CustomerID),
		Mode:       stripe.String(p.Mode),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	return session.New(params)
}

func (g *StripeGateway) GetSubscription(id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.AddExpand("default_payment_method")
	return subscription.Get(id, params)
}

// LatestSubscription re-reads the authoritative subscription object for a customer.
// Stripe returns subscriptions most recent first, so the first item wins.
func (g *StripeGateway) LatestSubscription(customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Limit = stripe.Int64(1)
	params.AddExpand("data.default_payment_method")

	iter := subscription.List(params)
	for iter.Next() {
		return iter.Subscription(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (g *StripeGateway) CancelAtPeriodEnd(subscriptionID string) (*stripe.Subscription, error) {
	return subscription.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
}

func (g *StripeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}

// IsNotFound reports whether a gateway error means the resource does not exist.
func IsNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Code == stripe.ErrorCodeResourceMissing
	}
	return false
}
