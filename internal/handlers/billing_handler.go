package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/billing"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"github.com/manaujo/chefcomanda/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
	accessService  *services.AccessService
}

func NewBillingHandler(billingService *services.BillingService, accessService *services.AccessService) *BillingHandler {
	return &BillingHandler{billingService: billingService, accessService: accessService}
}

// Plans lists the purchasable plans from the static catalog.
func (h *BillingHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": billing.Plans()})
}

func (h *BillingHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.billingService.CreateCheckoutSession(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingPriceID),
			errors.Is(err, services.ErrMissingSuccessURL),
			errors.Is(err, services.ErrMissingCancelURL),
			errors.Is(err, services.ErrInvalidMode),
			errors.Is(err, services.ErrPriceInactive):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrPriceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create checkout session",
		})
	}

	return c.JSON(resp)
}

func (h *BillingHandler) Subscription(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.billingService.Subscription(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load subscription",
		})
	}

	return c.JSON(resp)
}

// SyncSubscription re-fetches the subscription from the gateway on demand, as a
// fallback for missed webhooks.
func (h *BillingHandler) SyncSubscription(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	resp, err := h.billingService.SyncSubscription(userID)
	if err != nil {
		if errors.Is(err, services.ErrNoSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to sync subscription",
		})
	}

	return c.JSON(resp)
}

func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CancelSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.billingService.CancelSubscription(userID, req.SubscriptionID)
	if err != nil {
		switch {
		// Another account's subscription id must be indistinguishable from an
		// unknown one, so both map to 404.
		case errors.Is(err, services.ErrNoSubscription),
			errors.Is(err, services.ErrSubscriptionNotOwned):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Subscription not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to cancel subscription",
		})
	}

	return c.JSON(resp)
}

// Access reports the caller's effective subscription: their own, or the restaurant
// owner's for employees.
func (h *BillingHandler) Access(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	eff, err := h.accessService.Resolve(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to resolve access",
		})
	}

	resp := dto.AccessResponse{
		Active:    eff.Active(),
		Source:    string(eff.Source),
		Status:    eff.Status,
		OwnerName: eff.OwnerName,
	}
	if plan, ok := billing.PlanByPriceID(eff.PriceID); ok {
		resp.PlanID = plan.ID
		resp.PlanName = plan.Name
	}

	return c.JSON(resp)
}
