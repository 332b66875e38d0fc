package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

func subscriptionEvent(id string) func(payload []byte, sigHeader string) (stripe.Event, error) {
	return func(payload []byte, sigHeader string) (stripe.Event, error) {
		return stripe.Event{
			ID:      id,
			Type:    "customer.subscription.updated",
			Created: time.Now().Unix(),
			Data: &stripe.EventData{
				Raw: json.RawMessage(`{"id":"sub_1","customer":{"id":"cus_1"}}`),
			},
		}, nil
	}
}

func TestHandleWebhookRetriesAfterFailedDelivery(t *testing.T) {
	db := newTestDB(t)

	syncCalls := 0
	failures := 1
	gw := &fakeGateway{
		constructEventFunc: subscriptionEvent("evt_1"),
		latestSubscriptionFunc: func(customerID string) (*stripe.Subscription, error) {
			syncCalls++
			if failures > 0 {
				failures--
				return nil, errors.New("gateway timeout")
			}
			return &stripe.Subscription{
				ID:       "sub_1",
				Status:   stripe.SubscriptionStatusActive,
				Customer: &stripe.Customer{ID: customerID},
			}, nil
		},
	}
	svc := NewBillingService(db, gw)

	payload := []byte(`{"id":"evt_1"}`)
	require.Error(t, svc.HandleWebhook(payload, "sig"))

	var event models.WebhookEvent
	require.NoError(t, db.Where("stripe_event_id = ?", "evt_1").First(&event).Error)
	assert.Nil(t, event.ProcessedAt)
	assert.NotEmpty(t, event.ProcessingError)

	// The redelivery carries the same event id; it must be reprocessed, not
	// dropped as a duplicate.
	require.NoError(t, svc.HandleWebhook(payload, "sig"))

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).
		Where("stripe_customer_id = ?", "cus_1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.Where("stripe_event_id = ?", "evt_1").First(&event).Error)
	require.NotNil(t, event.ProcessedAt)
	assert.Empty(t, event.ProcessingError)

	// A third delivery of the now-processed event is skipped without a sync.
	require.NoError(t, svc.HandleWebhook(payload, "sig"))
	assert.Equal(t, 2, syncCalls)
}

func TestApplySubscriptionStateVersionGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewBillingService(db, &fakeGateway{})

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := models.Subscription{
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		Status:               models.SubscriptionStatusActive,
		PriceID:              "price_chefcomanda_pro_month",
	}
	require.NoError(t, svc.applySubscriptionState(rec, base))

	// A reordered older event must not overwrite newer state.
	stale := rec
	stale.Status = models.SubscriptionStatusPastDue
	require.NoError(t, svc.applySubscriptionState(stale, base.Add(-time.Hour)))

	var stored models.Subscription
	require.NoError(t, db.Where("stripe_customer_id = ?", "cus_1").First(&stored).Error)
	assert.Equal(t, models.SubscriptionStatusActive, stored.Status)

	// Re-applying the same state is a no-op, and a newer event wins.
	require.NoError(t, svc.applySubscriptionState(rec, base))
	newer := rec
	newer.Status = models.SubscriptionStatusCanceled
	require.NoError(t, svc.applySubscriptionState(newer, base.Add(time.Hour)))

	require.NoError(t, db.Where("stripe_customer_id = ?", "cus_1").First(&stored).Error)
	assert.Equal(t, models.SubscriptionStatusCanceled, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCancelSubscriptionOwnership(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	require.NoError(t, db.Create(&models.CustomerMapping{
		ID: uuid.New(), UserID: userID, StripeCustomerID: "cus_1",
	}).Error)
	require.NoError(t, db.Create(&models.Subscription{
		ID:                   uuid.New(),
		StripeCustomerID:     "cus_1",
		StripeSubscriptionID: "sub_1",
		Status:               models.SubscriptionStatusActive,
	}).Error)

	t.Run("foreign id rejected like an unknown one", func(t *testing.T) {
		gw := &fakeGateway{}
		svc := NewBillingService(db, gw)

		_, err := svc.CancelSubscription(userID, "sub_other")
		assert.ErrorIs(t, err, ErrSubscriptionNotOwned)
		assert.Zero(t, gw.calls)
	})

	t.Run("gateway customer mismatch rejected", func(t *testing.T) {
		gw := &fakeGateway{
			getSubscriptionFunc: func(id string) (*stripe.Subscription, error) {
				return &stripe.Subscription{ID: id, Customer: &stripe.Customer{ID: "cus_other"}}, nil
			},
		}
		svc := NewBillingService(db, gw)

		_, err := svc.CancelSubscription(userID, "sub_1")
		assert.ErrorIs(t, err, ErrSubscriptionNotOwned)
	})

	t.Run("owner cancels at period end", func(t *testing.T) {
		end := time.Now().Add(30 * 24 * time.Hour).Unix()
		gw := &fakeGateway{
			getSubscriptionFunc: func(id string) (*stripe.Subscription, error) {
				return &stripe.Subscription{ID: id, Customer: &stripe.Customer{ID: "cus_1"}}, nil
			},
			cancelAtPeriodEndFunc: func(subscriptionID string) (*stripe.Subscription, error) {
				return &stripe.Subscription{
					ID:                subscriptionID,
					Status:            stripe.SubscriptionStatusActive,
					Customer:          &stripe.Customer{ID: "cus_1"},
					CancelAtPeriodEnd: true,
					CurrentPeriodEnd:  end,
				}, nil
			},
		}
		svc := NewBillingService(db, gw)

		resp, err := svc.CancelSubscription(userID, "sub_1")
		require.NoError(t, err)
		assert.True(t, resp.CancelAtPeriodEnd)

		var stored models.Subscription
		require.NoError(t, db.Where("stripe_customer_id = ?", "cus_1").First(&stored).Error)
		assert.True(t, stored.CancelAtPeriodEnd)
	})
}
