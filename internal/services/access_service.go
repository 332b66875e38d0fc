package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/models"
	"gorm.io/gorm"
)

// Source tags where an effective subscription came from. The tag is explicit so the
// direct and inherited cases are handled exhaustively instead of through optional
// fields.
type Source string

const (
	SourceNone      Source = "none"
	SourceDirect    Source = "direct"
	SourceInherited Source = "inherited"
)

// EffectiveSubscription is the per-user view the access gate decides on: the user's
// own subscription, or the owning restaurant's owner subscription for employees.
type EffectiveSubscription struct {
	Source    Source
	Status    string
	PriceID   string
	OwnerName string
}

// IsActiveStatus is the one place that maps gateway statuses to an access decision:
// active and trialing grant, everything else (past_due included) does not.
func IsActiveStatus(status string) bool {
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}

// Active reports whether the effective subscription grants access.
func (e EffectiveSubscription) Active() bool {
	return e.Source != SourceNone && IsActiveStatus(e.Status)
}

// Evaluate is the gate decision: routes that don't require an active subscription
// always grant; everything else grants iff the effective subscription is active.
func Evaluate(requireActive bool, eff EffectiveSubscription) bool {
	if !requireActive {
		return true
	}
	return eff.Active()
}

type AccessService struct {
	db *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{db: db}
}

// Resolve computes the effective subscription for a user. An active direct
// subscription wins; employees whose own subscription is missing or lapsed fall
// back to the owning restaurant's owner subscription, so an old canceled personal
// plan never shadows the restaurant's access.
func (s *AccessService) Resolve(userID uuid.UUID) (EffectiveSubscription, error) {
	none := EffectiveSubscription{Source: SourceNone, Status: models.SubscriptionStatusNotStarted}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return none, ErrUserNotFound
	}

	var direct *EffectiveSubscription
	if sub, ok, err := s.subscriptionForUser(user.ID); err != nil {
		return none, err
	} else if ok {
		direct = &EffectiveSubscription{
			Source:  SourceDirect,
			Status:  sub.Status,
			PriceID: sub.PriceID,
		}
		if direct.Active() {
			return *direct, nil
		}
	}

	inherited, err := s.inheritedSubscription(&user)
	if err != nil {
		return none, err
	}

	switch {
	case inherited != nil && inherited.Active():
		return *inherited, nil
	case direct != nil:
		return *direct, nil
	case inherited != nil:
		return *inherited, nil
	}
	return none, nil
}

// inheritedSubscription resolves the owner subscription an employee inherits, or nil
// when the user is not an employee or the chain is incomplete.
func (s *AccessService) inheritedSubscription(user *models.User) (*EffectiveSubscription, error) {
	if user.Role != models.RoleEmployee || user.RestaurantID == nil {
		return nil, nil
	}

	var rest models.Restaurant
	if err := s.db.First(&rest, "id = ?", *user.RestaurantID).Error; err != nil {
		return nil, nil
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", rest.OwnerID).Error; err != nil {
		return nil, nil
	}

	sub, ok, err := s.subscriptionForUser(owner.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &EffectiveSubscription{
		Source:    SourceInherited,
		Status:    sub.Status,
		PriceID:   sub.PriceID,
		OwnerName: owner.Name,
	}, nil
}

func (s *AccessService) subscriptionForUser(userID uuid.UUID) (*models.Subscription, bool, error) {
	var mapping models.CustomerMapping
	if err := s.db.Where("user_id = ?", userID).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var sub models.Subscription
	if err := s.db.Where("stripe_customer_id = ?", mapping.StripeCustomerID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &sub, true, nil
}
