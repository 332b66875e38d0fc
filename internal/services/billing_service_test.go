package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/billing"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

// fakeGateway implements billing.Gateway with overridable functions and counts
// every call, so tests can assert the gateway was never reached.
type fakeGateway struct {
	calls int

	getPriceFunc           func(id string) (*stripe.Price, error)
	constructEventFunc     func(payload []byte, sigHeader string) (stripe.Event, error)
	getSubscriptionFunc    func(id string) (*stripe.Subscription, error)
	latestSubscriptionFunc func(customerID string) (*stripe.Subscription, error)
	cancelAtPeriodEndFunc  func(subscriptionID string) (*stripe.Subscription, error)
}

func (f *fakeGateway) GetPrice(id string) (*stripe.Price, error) {
	f.calls++
	if f.getPriceFunc != nil {
		return f.getPriceFunc(id)
	}
	return &stripe.Price{ID: id, Active: true}, nil
}

func (f *fakeGateway) CreateCustomer(name, email, userID string) (*stripe.Customer, error) {
	f.calls++
	return &stripe.Customer{ID: "cus_test"}, nil
}

func (f *fakeGateway) DeleteCustomer(id string) error {
	f.calls++
	return nil
}

func (f *fakeGateway) CreateCheckoutSession(p billing.CheckoutParams) (*stripe.CheckoutSession, error) {
	f.calls++
	return &stripe.CheckoutSession{ID: "cs_test", URL: "https://checkout.test/cs_test"}, nil
}

func (f *fakeGateway) GetSubscription(id string) (*stripe.Subscription, error) {
	f.calls++
	if f.getSubscriptionFunc != nil {
		return f.getSubscriptionFunc(id)
	}
	return &stripe.Subscription{ID: id}, nil
}

func (f *fakeGateway) LatestSubscription(customerID string) (*stripe.Subscription, error) {
	f.calls++
	if f.latestSubscriptionFunc != nil {
		return f.latestSubscriptionFunc(customerID)
	}
	return nil, nil
}

func (f *fakeGateway) CancelAtPeriodEnd(subscriptionID string) (*stripe.Subscription, error) {
	f.calls++
	if f.cancelAtPeriodEndFunc != nil {
		return f.cancelAtPeriodEndFunc(subscriptionID)
	}
	return &stripe.Subscription{ID: subscriptionID, CancelAtPeriodEnd: true}, nil
}

func (f *fakeGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	f.calls++
	if f.constructEventFunc != nil {
		return f.constructEventFunc(payload, sigHeader)
	}
	return stripe.Event{}, nil
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	valid := dto.CheckoutRequest{
		PriceID:    "price_chefcomanda_pro_month",
		Mode:       billing.ModeSubscription,
		SuccessURL: "https://app.test/success",
		CancelURL:  "https://app.test/cancel",
	}

	tests := []struct {
		name    string
		mutate  func(r *dto.CheckoutRequest)
		wantErr error
	}{
		{"missing price id", func(r *dto.CheckoutRequest) { r.PriceID = "" }, ErrMissingPriceID},
		{"missing success url", func(r *dto.CheckoutRequest) { r.SuccessURL = "" }, ErrMissingSuccessURL},
		{"missing cancel url", func(r *dto.CheckoutRequest) { r.CancelURL = "" }, ErrMissingCancelURL},
		{"empty mode", func(r *dto.CheckoutRequest) { r.Mode = "" }, ErrInvalidMode},
		{"unknown mode", func(r *dto.CheckoutRequest) { r.Mode = "setup" }, ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc := NewBillingService(nil, gw)

			req := valid
			tt.mutate(&req)

			_, err := svc.CreateCheckoutSession(uuid.New(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
			// Validation failures must never hit the payment gateway.
			assert.Zero(t, gw.calls)
		})
	}
}

func TestCreateCheckoutSessionPriceErrors(t *testing.T) {
	t.Run("missing price maps to not found", func(t *testing.T) {
		gw := &fakeGateway{
			getPriceFunc: func(id string) (*stripe.Price, error) {
				return nil, &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
			},
		}
		svc := NewBillingService(nil, gw)

		_, err := svc.CreateCheckoutSession(uuid.New(), &dto.CheckoutRequest{
			PriceID:    "price_gone",
			Mode:       billing.ModeSubscription,
			SuccessURL: "https://app.test/success",
			CancelURL:  "https://app.test/cancel",
		})
		assert.ErrorIs(t, err, ErrPriceNotFound)
	})

	t.Run("inactive price is rejected", func(t *testing.T) {
		gw := &fakeGateway{
			getPriceFunc: func(id string) (*stripe.Price, error) {
				return &stripe.Price{ID: id, Active: false}, nil
			},
		}
		svc := NewBillingService(nil, gw)

		_, err := svc.CreateCheckoutSession(uuid.New(), &dto.CheckoutRequest{
			PriceID:    "price_retired",
			Mode:       billing.ModeSubscription,
			SuccessURL: "https://app.test/success",
			CancelURL:  "https://app.test/cancel",
		})
		assert.ErrorIs(t, err, ErrPriceInactive)
	})
}

func TestHandleWebhookBadSignature(t *testing.T) {
	gw := &fakeGateway{
		constructEventFunc: func(payload []byte, sigHeader string) (stripe.Event, error) {
			return stripe.Event{}, errors.New("signature mismatch")
		},
	}
	svc := NewBillingService(nil, gw)

	err := svc.HandleWebhook([]byte(`{"id":"evt_1"}`), "t=1,v1=bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, 1, gw.calls)
}
