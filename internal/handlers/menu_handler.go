package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"github.com/manaujo/chefcomanda/internal/services"
	"gorm.io/gorm"
)

type MenuHandler struct {
	menuService *services.MenuService
}

func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) CreateProduct(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	product, err := h.menuService.CreateProduct(c.Context(), restaurantID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func (h *MenuHandler) UpdateProduct(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	var req dto.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	product, err := h.menuService.UpdateProduct(c.Context(), restaurantID, productID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update product",
		})
	}

	return c.JSON(product)
}

func (h *MenuHandler) DeleteProduct(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid product id",
		})
	}

	if err := h.menuService.DeleteProduct(c.Context(), restaurantID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete product",
		})
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}

func (h *MenuHandler) ListProducts(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	products, err := h.menuService.ListProducts(restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list products",
		})
	}

	return c.JSON(fiber.Map{"products": products})
}

// PublicMenu serves the unauthenticated digital menu by restaurant slug.
func (h *MenuHandler) PublicMenu(c *fiber.Ctx) error {
	menu, err := h.menuService.PublicMenu(c.Context(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrRestaurantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load menu",
		})
	}

	return c.JSON(menu)
}

// MenuQRCode returns a PNG QR code linking to the public menu.
func (h *MenuHandler) MenuQRCode(c *fiber.Ctx) error {
	png, err := h.menuService.MenuQRCode(c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrRestaurantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to render QR code",
		})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
