package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/metrics"
	"github.com/manaujo/chefcomanda/internal/services"
)

type WebhookHandler struct {
	billingService *services.BillingService
}

func NewWebhookHandler(billingService *services.BillingService) *WebhookHandler {
	return &WebhookHandler{billingService: billingService}
}

// HandleStripe verifies and processes a Stripe webhook delivery. The raw body is
// passed through untouched because signature verification hashes the exact bytes.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("stripe-signature")

	if err := h.billingService.HandleWebhook(payload, signature); err != nil {
		if errors.Is(err, services.ErrInvalidSignature) {
			metrics.WebhookEventsTotal.WithLabelValues("invalid_signature").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		// Non-signature failures return 500 so Stripe retries the delivery.
		metrics.WebhookEventsTotal.WithLabelValues("error").Inc()
		slog.Error("webhook processing failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhook processing failed",
		})
	}

	metrics.WebhookEventsTotal.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{"received": true})
}
