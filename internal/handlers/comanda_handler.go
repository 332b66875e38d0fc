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

type ComandaHandler struct {
	comandaService *services.ComandaService
}

func NewComandaHandler(comandaService *services.ComandaService) *ComandaHandler {
	return &ComandaHandler{comandaService: comandaService}
}

func (h *ComandaHandler) CreateTable(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTableRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	table, err := h.comandaService.CreateTable(restaurantID, req.Number)
	if err != nil {
		if errors.Is(err, services.ErrTableNumberTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create table",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(table)
}

func (h *ComandaHandler) ListTables(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	tables, err := h.comandaService.ListTables(restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tables",
		})
	}

	return c.JSON(fiber.Map{"tables": tables})
}

func (h *ComandaHandler) OpenComanda(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.OpenComandaRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	comanda, err := h.comandaService.OpenComanda(restaurantID, req.TableID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTableOccupied):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Table not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to open comanda",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(comanda)
}

func (h *ComandaHandler) ListOpen(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandas, err := h.comandaService.ListOpen(restaurantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list comandas",
		})
	}

	return c.JSON(fiber.Map{"comandas": comandas})
}

func (h *ComandaHandler) Get(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comanda id",
		})
	}

	comanda, err := h.comandaService.Get(restaurantID, comandaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Comanda not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load comanda",
		})
	}

	return c.JSON(comanda)
}

func (h *ComandaHandler) AddItem(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comanda id",
		})
	}

	var req dto.AddItemRequest
	if err := parseBody(c, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	comanda, err := h.comandaService.AddItem(restaurantID, comandaID, &req)
	if err != nil {
		return h.mapItemError(c, err)
	}

	return c.JSON(comanda)
}

func (h *ComandaHandler) SetItemQuantity(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comanda id",
		})
	}
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid item id",
		})
	}

	var req dto.SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	comanda, err := h.comandaService.SetItemQuantity(restaurantID, comandaID, itemID, req.Quantity)
	if err != nil {
		return h.mapItemError(c, err)
	}

	return c.JSON(comanda)
}

func (h *ComandaHandler) RemoveItem(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comanda id",
		})
	}
	itemID, err := uuid.Parse(c.Params("itemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid item id",
		})
	}

	comanda, err := h.comandaService.RemoveItem(restaurantID, comandaID, itemID)
	if err != nil {
		return h.mapItemError(c, err)
	}

	return c.JSON(comanda)
}

func (h *ComandaHandler) Void(c *fiber.Ctx) error {
	restaurantID, err := restaurant.GetRestaurantID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	comandaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid comanda id",
		})
	}

	if err := h.comandaService.Void(restaurantID, comandaID); err != nil {
		return h.mapItemError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comanda voided"})
}

func (h *ComandaHandler) mapItemError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Not found",
		})
	case errors.Is(err, services.ErrComandaNotOpen),
		errors.Is(err, services.ErrProductUnavailable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
