package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/billing"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/stripe/stripe-go/v78"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Billing errors form a closed taxonomy so handlers can map them to statuses with
// errors.Is instead of matching message text.
var (
	ErrMissingPriceID       = errors.New("price_id is required")
	ErrMissingSuccessURL    = errors.New("success_url is required")
	ErrMissingCancelURL     = errors.New("cancel_url is required")
	ErrInvalidMode          = errors.New("mode must be either payment or subscription")
	ErrPriceNotFound        = errors.New("price not found")
	ErrPriceInactive        = errors.New("price is not active")
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
	ErrNoSubscription       = errors.New("no subscription for this account")
	ErrSubscriptionNotOwned = errors.New("subscription does not belong to this account")
)

type BillingService struct {
	db *gorm.DB
	gw billing.Gateway
}

func NewBillingService(db *gorm.DB, gw billing.Gateway) *BillingService {
	return &BillingService{db: db, gw: gw}
}

// CreateCheckoutSession validates the request, resolves (or lazily creates) the
// caller's gateway customer and opens a hosted checkout session. Validation happens
// before any gateway call.
func (s *BillingService) CreateCheckoutSession(userID uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if req.PriceID == "" {
		return nil, ErrMissingPriceID
	}
	if req.SuccessURL == "" {
		return nil, ErrMissingSuccessURL
	}
	if req.CancelURL == "" {
		return nil, ErrMissingCancelURL
	}
	if !billing.ValidMode(req.Mode) {
		return nil, ErrInvalidMode
	}

	price, err := s.gw.GetPrice(req.PriceID)
	if err != nil {
		if billing.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrPriceNotFound, req.PriceID)
		}
		return nil, fmt.Errorf("failed to look up price: %w", err)
	}
	if !price.Active {
		return nil, fmt.Errorf("%w: %s", ErrPriceInactive, req.PriceID)
	}

	mapping, err := s.ensureCustomer(userID)
	if err != nil {
		return nil, err
	}

	if req.Mode == billing.ModeSubscription {
		// Pre-create the row the webhook will upsert into. The zero gateway
		// timestamp guarantees any real event wins over the placeholder.
		placeholder := models.Subscription{
			ID:               uuid.New(),
			StripeCustomerID: mapping.StripeCustomerID,
			Status:           models.SubscriptionStatusNotStarted,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_customer_id"}},
			DoNothing: true,
		}).Create(&placeholder).Error
		if err != nil {
			return nil, fmt.Errorf("failed to create subscription placeholder: %w", err)
		}
	}

	sess, err := s.gw.CreateCheckoutSession(billing.CheckoutParams{
		CustomerID: mapping.StripeCustomerID,
		Mode:       req.Mode,
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &dto.CheckoutResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// ensureCustomer returns the user's customer mapping, creating the gateway customer
// and local row on first use. If the local write fails after the gateway customer
// was created, the customer is deleted again so the two sides stay consistent;
// failure of that compensation is only logged.
func (s *BillingService) ensureCustomer(userID uuid.UUID) (*models.CustomerMapping, error) {
	var mapping models.CustomerMapping
	if err := s.db.Where("user_id = ?", userID).First(&mapping).Error; err == nil {
		return &mapping, nil
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	cust, err := s.gw.CreateCustomer(user.Name, user.Email, user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway customer: %w", err)
	}

	mapping = models.CustomerMapping{
		ID:               uuid.New(),
		UserID:           user.ID,
		StripeCustomerID: cust.ID,
	}
	if err := s.db.Create(&mapping).Error; err != nil {
		if delErr := s.gw.DeleteCustomer(cust.ID); delErr != nil {
			slog.Error("failed to delete orphaned gateway customer",
				"customer_id", cust.ID, "error", delErr)
		}
		return nil, fmt.Errorf("failed to store customer mapping: %w", err)
	}

	return &mapping, nil
}

// HandleWebhook verifies the event signature, records the event id for idempotency
// and dispatches to the matching sync. A redelivered event id is only skipped once a
// prior delivery fully processed it; failed attempts leave processed_at unset and
// are retried, since a processing failure is answered with 500 and Stripe redelivers
// under the same event id.
func (s *BillingService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := s.gw.ConstructEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	record := models.WebhookEvent{
		ID:            uuid.New(),
		StripeEventID: event.ID,
		EventType:     string(event.Type),
		Payload:       datatypes.JSON(event.Data.Raw),
	}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_event_id"}},
		DoNothing: true,
	}).Create(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to record webhook event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var prior models.WebhookEvent
		if err := s.db.Where("stripe_event_id = ?", event.ID).First(&prior).Error; err != nil {
			return fmt.Errorf("failed to load webhook event: %w", err)
		}
		if prior.ProcessedAt != nil {
			slog.Info("duplicate webhook delivery skipped", "event_id", event.ID, "event_type", event.Type)
			return nil
		}
		record = prior
	}

	if err := s.processEvent(&event); err != nil {
		s.db.Model(&record).Update("processing_error", err.Error())
		return err
	}

	now := time.Now()
	return s.db.Model(&record).Updates(map[string]interface{}{
		"processed_at":     now,
		"processing_error": "",
	}).Error
}

func (s *BillingService) processEvent(event *stripe.Event) error {
	eventTime := time.Unix(event.Created, 0)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to decode checkout session: %w", err)
		}
		if sess.Customer == nil {
			return nil
		}
		if sess.Mode == stripe.CheckoutSessionModeSubscription {
			return s.syncCustomer(sess.Customer.ID, eventTime)
		}
		if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
			return s.recordOrder(&sess)
		}
		return nil

	case "customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to decode subscription: %w", err)
		}
		if sub.Customer == nil {
			return nil
		}
		// The payload is only used for routing; the subscription state is
		// re-read from the gateway as the source of truth.
		return s.syncCustomer(sub.Customer.ID, eventTime)

	default:
		slog.Info("unhandled webhook event", "event_type", event.Type)
		return nil
	}
}

func (s *BillingService) recordOrder(sess *stripe.CheckoutSession) error {
	order := models.Order{
		ID:                uuid.New(),
		CheckoutSessionID: sess.ID,
		StripeCustomerID:  sess.Customer.ID,
		AmountSubtotal:    sess.AmountSubtotal,
		AmountTotal:       sess.AmountTotal,
		Currency:          string(sess.Currency),
		PaymentStatus:     string(sess.PaymentStatus),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "checkout_session_id"}},
		DoNothing: true,
	}).Create(&order).Error
	if err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}
	return nil
}

// syncCustomer re-reads the authoritative subscription from the gateway and applies
// it with the versioned upsert.
func (s *BillingService) syncCustomer(customerID string, at time.Time) error {
	sub, err := s.gw.LatestSubscription(customerID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription for %s: %w", customerID, err)
	}
	if sub == nil {
		return nil
	}
	return s.applySubscriptionState(subscriptionRecord(customerID, sub), at)
}

func subscriptionRecord(customerID string, sub *stripe.Subscription) models.Subscription {
	start := time.Unix(sub.CurrentPeriodStart, 0)
	end := time.Unix(sub.CurrentPeriodEnd, 0)

	rec := models.Subscription{
		StripeCustomerID:     customerID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		CurrentPeriodStart:   &start,
		CurrentPeriodEnd:     &end,
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		rec.PriceID = sub.Items.Data[0].Price.ID
	}
	if sub.DefaultPaymentMethod != nil && sub.DefaultPaymentMethod.Card != nil {
		rec.PaymentMethodBrand = string(sub.DefaultPaymentMethod.Card.Brand)
		rec.PaymentMethodLast4 = sub.DefaultPaymentMethod.Card.Last4
	}
	return rec
}

// applySubscriptionState upserts the mirror row keyed by customer id. A write
// carrying an older gateway timestamp than the stored one is discarded, which makes
// the webhook and manual-sync writers commutative under reordering.
func (s *BillingService) applySubscriptionState(rec models.Subscription, at time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Subscription
		err := tx.Where("stripe_customer_id = ?", rec.StripeCustomerID).First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rec.ID = uuid.New()
			rec.GatewayUpdatedAt = at
			return tx.Create(&rec).Error
		}

		if at.Before(existing.GatewayUpdatedAt) {
			slog.Info("stale subscription update skipped",
				"customer_id", rec.StripeCustomerID,
				"event_time", at, "stored_time", existing.GatewayUpdatedAt)
			return nil
		}

		return tx.Model(&existing).Updates(map[string]interface{}{
			"stripe_subscription_id": rec.StripeSubscriptionID,
			"price_id":               rec.PriceID,
			"status":                 rec.Status,
			"current_period_start":   rec.CurrentPeriodStart,
			"current_period_end":     rec.CurrentPeriodEnd,
			"cancel_at_period_end":   rec.CancelAtPeriodEnd,
			"payment_method_brand":   rec.PaymentMethodBrand,
			"payment_method_last4":   rec.PaymentMethodLast4,
			"gateway_updated_at":     at,
		}).Error
	})
}

// SyncSubscription is the manual re-sync: re-fetch from the gateway and return the
// refreshed mirror row.
func (s *BillingService) SyncSubscription(userID uuid.UUID) (*dto.SubscriptionResponse, error) {
	var mapping models.CustomerMapping
	if err := s.db.Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		return nil, ErrNoSubscription
	}

	if err := s.syncCustomer(mapping.StripeCustomerID, time.Now()); err != nil {
		return nil, err
	}

	return s.Subscription(userID)
}

// Subscription returns the caller's own mirror row for display.
func (s *BillingService) Subscription(userID uuid.UUID) (*dto.SubscriptionResponse, error) {
	var mapping models.CustomerMapping
	if err := s.db.Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		return nil, ErrNoSubscription
	}

	var sub models.Subscription
	if err := s.db.Where("stripe_customer_id = ?", mapping.StripeCustomerID).First(&sub).Error; err != nil {
		return nil, ErrNoSubscription
	}

	resp := &dto.SubscriptionResponse{
		Status:             sub.Status,
		PriceID:            sub.PriceID,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		PaymentMethodBrand: sub.PaymentMethodBrand,
		PaymentMethodLast4: sub.PaymentMethodLast4,
	}
	if plan, ok := billing.PlanByPriceID(sub.PriceID); ok {
		resp.PlanName = plan.Name
	}
	return resp, nil
}

// CancelSubscription verifies the subscription belongs to the caller before asking
// the gateway to cancel at period end. A valid gateway id owned by someone else is
// rejected the same way as an unknown one.
func (s *BillingService) CancelSubscription(userID uuid.UUID, subscriptionID string) (*dto.CancelSubscriptionResponse, error) {
	var mapping models.CustomerMapping
	if err := s.db.Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		return nil, ErrSubscriptionNotOwned
	}

	var sub models.Subscription
	if err := s.db.Where("stripe_customer_id = ?", mapping.StripeCustomerID).First(&sub).Error; err != nil {
		return nil, ErrSubscriptionNotOwned
	}
	if sub.StripeSubscriptionID == "" || sub.StripeSubscriptionID != subscriptionID {
		return nil, ErrSubscriptionNotOwned
	}

	// The gateway object is the authority on ownership; the local mirror can lag
	// behind a customer change.
	remote, err := s.gw.GetSubscription(subscriptionID)
	if err != nil {
		if billing.IsNotFound(err) {
			return nil, ErrSubscriptionNotOwned
		}
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if remote.Customer == nil || remote.Customer.ID != mapping.StripeCustomerID {
		return nil, ErrSubscriptionNotOwned
	}

	updated, err := s.gw.CancelAtPeriodEnd(subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	if err := s.applySubscriptionState(subscriptionRecord(mapping.StripeCustomerID, updated), time.Now()); err != nil {
		return nil, err
	}

	end := time.Unix(updated.CurrentPeriodEnd, 0)
	return &dto.CancelSubscriptionResponse{
		CancelAtPeriodEnd: updated.CancelAtPeriodEnd,
		CurrentPeriodEnd:  &end,
	}, nil
}
