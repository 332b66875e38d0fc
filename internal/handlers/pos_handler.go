package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/metrics"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"github.com/manaujo/chefcomanda/internal/services"
)

type POSHandler struct {
	posService *services.POSService
}

func NewPOSHandler(posService *services.POSService) *POSHandler {
	return &POSHandler{posService: posService}
}

func (h *POSHandler) OpenRegister(c *fiber.Ctx) error {
	userID, err := restaurant.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.OpenRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	session, err := h.posService.OpenRegister(restaurantID, userID, req.OpeningCents)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRegisterAlreadyOpen):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNegativeOpening):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to open register",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *POSHandler) CurrentSession(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	session, err := h.posService.CurrentSession(restaurantID)
	if err != nil {
		if errors.Is(err, services.ErrNoOpenRegister) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load register",
		})
	}

	return c.JSON(session)
}

func (h *POSHandler) CloseRegister(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	session, err := h.posService.CloseRegister(restaurantID)
	if err != nil {
		if errors.Is(err, services.ErrNoOpenRegister) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to close register",
		})
	}

	return c.JSON(session)
}

func (h *POSHandler) RecordMovement(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.MovementRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	session, err := h.posService.RecordMovement(restaurantID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoOpenRegister):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, models.ErrInsufficientFunds),
			errors.Is(err, models.ErrUnknownMovement):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to record movement",
		})
	}

	return c.JSON(session)
}

func (h *POSHandler) Movements(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	movements, err := h.posService.Movements(restaurantID)
	if err != nil {
		if errors.Is(err, services.ErrNoOpenRegister) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load movements",
		})
	}

	return c.JSON(fiber.Map{"movements": movements})
}

func (h *POSHandler) FinalizeSale(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.FinalizeSaleRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	sale, err := h.posService.FinalizeSale(restaurantID, req.ComandaID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoOpenRegister):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrComandaNotOpen),
			errors.Is(err, services.ErrEmptyComanda):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to finalize sale",
		})
	}

	metrics.SalesFinalizedTotal.Inc()
	return c.JSON(sale)
}
