package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"github.com/manaujo/chefcomanda/internal/services"
)

// SubscriptionRequired gates a route on an active subscription, the caller's own or
// the one inherited from the restaurant owner. Billing and auth routes must never
// sit behind this gate or a lapsed customer could not pay their way back in.
func SubscriptionRequired(accessService *services.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := restaurant.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		eff, err := accessService.Resolve(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to resolve access",
			})
		}

		if !services.Evaluate(true, eff) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "An active subscription is required",
			})
		}

		return c.Next()
	}
}
