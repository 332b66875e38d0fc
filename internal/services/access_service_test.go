package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsActiveStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.SubscriptionStatusActive, true},
		{models.SubscriptionStatusTrialing, true},
		{models.SubscriptionStatusPastDue, false},
		{models.SubscriptionStatusCanceled, false},
		{models.SubscriptionStatusUnpaid, false},
		{models.SubscriptionStatusIncomplete, false},
		{models.SubscriptionStatusNotStarted, false},
		{"", false},
		{"something_new", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActiveStatus(tt.status))
		})
	}
}

func TestEffectiveSubscriptionActive(t *testing.T) {
	tests := []struct {
		name string
		eff  EffectiveSubscription
		want bool
	}{
		{
			name: "direct active grants",
			eff:  EffectiveSubscription{Source: SourceDirect, Status: models.SubscriptionStatusActive},
			want: true,
		},
		{
			name: "inherited trialing grants",
			eff:  EffectiveSubscription{Source: SourceInherited, Status: models.SubscriptionStatusTrialing},
			want: true,
		},
		{
			name: "inherited past_due does not grant",
			eff:  EffectiveSubscription{Source: SourceInherited, Status: models.SubscriptionStatusPastDue},
			want: false,
		},
		{
			// Source none never grants even if a stale status slips through.
			name: "no source never grants",
			eff:  EffectiveSubscription{Source: SourceNone, Status: models.SubscriptionStatusActive},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eff.Active())
		})
	}
}

func TestEvaluate(t *testing.T) {
	inactive := EffectiveSubscription{Source: SourceNone, Status: models.SubscriptionStatusNotStarted}
	active := EffectiveSubscription{Source: SourceDirect, Status: models.SubscriptionStatusActive}

	// Routes that don't require a subscription always grant.
	assert.True(t, Evaluate(false, inactive))
	assert.True(t, Evaluate(false, active))

	assert.True(t, Evaluate(true, active))
	assert.False(t, Evaluate(true, inactive))
}

func seedSubscription(t *testing.T, db *gorm.DB, userID uuid.UUID, customerID, status string) {
	t.Helper()
	require.NoError(t, db.Create(&models.CustomerMapping{
		ID: uuid.New(), UserID: userID, StripeCustomerID: customerID,
	}).Error)
	require.NoError(t, db.Create(&models.Subscription{
		ID:               uuid.New(),
		StripeCustomerID: customerID,
		Status:           status,
	}).Error)
}

func TestResolvePrefersActiveInheritedOverLapsedDirect(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := models.User{
		ID: uuid.New(), Name: "Dona Marta", Email: "marta@cantina.test",
		Password: "x", Role: models.RoleOwner,
	}
	require.NoError(t, db.Create(&owner).Error)

	rest := models.Restaurant{
		ID: uuid.New(), OwnerID: owner.ID, Name: "Cantina", Slug: "cantina",
	}
	require.NoError(t, db.Create(&rest).Error)
	require.NoError(t, db.Model(&owner).Update("restaurant_id", rest.ID).Error)

	employee := models.User{
		ID: uuid.New(), Name: "Caio", Email: "caio@cantina.test",
		Password: "x", Role: models.RoleEmployee, RestaurantID: &rest.ID,
	}
	require.NoError(t, db.Create(&employee).Error)

	seedSubscription(t, db, owner.ID, "cus_owner", models.SubscriptionStatusActive)
	// The employee's own old personal plan is canceled; it must not shadow the
	// restaurant's access.
	seedSubscription(t, db, employee.ID, "cus_employee", models.SubscriptionStatusCanceled)

	eff, err := svc.Resolve(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceInherited, eff.Source)
	assert.True(t, eff.Active())
	assert.Equal(t, "Dona Marta", eff.OwnerName)

	// The owner still sees their own direct subscription.
	ownerEff, err := svc.Resolve(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceDirect, ownerEff.Source)
	assert.True(t, ownerEff.Active())
}

func TestResolveLapsedEverywhere(t *testing.T) {
	db := newTestDB(t)
	svc := NewAccessService(db)

	owner := models.User{
		ID: uuid.New(), Name: "Dona Marta", Email: "marta@bar.test",
		Password: "x", Role: models.RoleOwner,
	}
	require.NoError(t, db.Create(&owner).Error)
	rest := models.Restaurant{ID: uuid.New(), OwnerID: owner.ID, Name: "Bar", Slug: "bar"}
	require.NoError(t, db.Create(&rest).Error)
	employee := models.User{
		ID: uuid.New(), Name: "Caio", Email: "caio@bar.test",
		Password: "x", Role: models.RoleEmployee, RestaurantID: &rest.ID,
	}
	require.NoError(t, db.Create(&employee).Error)

	seedSubscription(t, db, owner.ID, "cus_owner2", models.SubscriptionStatusPastDue)
	seedSubscription(t, db, employee.ID, "cus_employee2", models.SubscriptionStatusCanceled)

	// Neither side is active; the employee's own lapsed subscription is reported.
	eff, err := svc.Resolve(employee.ID)
	require.NoError(t, err)
	assert.Equal(t, SourceDirect, eff.Source)
	assert.False(t, eff.Active())
	assert.Equal(t, models.SubscriptionStatusCanceled, eff.Status)
}
