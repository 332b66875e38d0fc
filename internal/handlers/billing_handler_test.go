package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCancelSubscriptionForeignIDReturns404(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.CustomerMapping{}, &models.Subscription{}))

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

	billingService := services.NewBillingService(db, badSigGateway{})
	handler := NewBillingHandler(billingService, services.NewAccessService(db))

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
		}))
		return c.Next()
	})
	app.Post("/api/billing/cancel", handler.CancelSubscription)

	// A subscription id owned by another customer must look exactly like an
	// unknown one.
	req := httptest.NewRequest("POST", "/api/billing/cancel",
		strings.NewReader(`{"subscription_id":"sub_other"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
