package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"gorm.io/gorm"
)

// OwnerRequired restricts a route to restaurant owners. The role claim is checked
// first; the DB row is the authority in case the token predates a role change.
func OwnerRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := restaurant.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if restaurant.GetRole(c) == models.RoleOwner {
			var user models.User
			if err := db.First(&user, "id = ?", userID).Error; err == nil && user.Role == models.RoleOwner {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Owner access required",
		})
	}
}
