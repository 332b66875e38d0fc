package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("not enough stock for this movement")

type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

func (s *InventoryService) CreateItem(restaurantID uuid.UUID, req *dto.InventoryItemRequest) (*models.InventoryItem, error) {
	item := models.InventoryItem{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         req.Name,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
	}
	if item.Unit == "" {
		item.Unit = "un"
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &item, nil
}

func (s *InventoryService) ListItems(restaurantID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Order("name").Find(&items).Error
	return items, err
}

// LowStock lists items at or below their minimum quantity.
func (s *InventoryService) LowStock(restaurantID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Where("quantity <= min_quantity").
		Order("name").Find(&items).Error
	return items, err
}

// Move applies a stock movement and appends it to the item's history. "in" and
// "out" are relative, "adjust" sets the absolute quantity.
func (s *InventoryService) Move(restaurantID, itemID uuid.UUID, req *dto.StockMovementRequest) (*models.InventoryItem, error) {
	var item models.InventoryItem

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&item, "id = ?", itemID).Error
		if err != nil {
			return err
		}

		switch req.Type {
		case models.StockIn:
			item.Quantity += req.Quantity
		case models.StockOut:
			if req.Quantity > item.Quantity {
				return ErrInsufficientStock
			}
			item.Quantity -= req.Quantity
		case models.StockAdjust:
			if req.Quantity < 0 {
				return ErrInsufficientStock
			}
			item.Quantity = req.Quantity
		default:
			return fmt.Errorf("unknown movement type %q", req.Type)
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		movement := models.StockMovement{
			ID:       uuid.New(),
			ItemID:   item.ID,
			Type:     req.Type,
			Quantity: req.Quantity,
			Reason:   req.Reason,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryService) Movements(restaurantID, itemID uuid.UUID) ([]models.StockMovement, error) {
	var item models.InventoryItem
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		First(&item, "id = ?", itemID).Error
	if err != nil {
		return nil, err
	}

	var movements []models.StockMovement
	err = s.db.Where("item_id = ?", item.ID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}
