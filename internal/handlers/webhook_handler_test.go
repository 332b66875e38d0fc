package handlers

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/billing"
	"github.com/manaujo/chefcomanda/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

// badSigGateway rejects every webhook signature. The embedded interface covers the
// methods this test never calls.
type badSigGateway struct {
	billing.Gateway
}

func (badSigGateway) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return stripe.Event{}, errors.New("signature mismatch")
}

func TestHandleStripeRejectsBadSignature(t *testing.T) {
	billingService := services.NewBillingService(nil, badSigGateway{})
	handler := NewWebhookHandler(billingService)

	app := fiber.New()
	app.Post("/api/webhooks/stripe", handler.HandleStripe)

	req := httptest.NewRequest("POST", "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("stripe-signature", "t=1,v1=bad")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
