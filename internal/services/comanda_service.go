package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"gorm.io/gorm"
)

var (
	ErrTableOccupied      = errors.New("table already has an open comanda")
	ErrTableNumberTaken   = errors.New("table number already exists")
	ErrComandaNotOpen     = errors.New("comanda is not open")
	ErrProductUnavailable = errors.New("product is not available")
)

type ComandaService struct {
	db *gorm.DB
}

func NewComandaService(db *gorm.DB) *ComandaService {
	return &ComandaService{db: db}
}

func (s *ComandaService) CreateTable(restaurantID uuid.UUID, number int) (*models.Table, error) {
	var existing models.Table
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Where("number = ?", number).First(&existing).Error
	if err == nil {
		return nil, ErrTableNumberTaken
	}

	table := models.Table{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Number:       number,
		Status:       models.TableFree,
	}
	if err := s.db.Create(&table).Error; err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &table, nil
}

func (s *ComandaService) ListTables(restaurantID uuid.UUID) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Order("number").Find(&tables).Error
	return tables, err
}

// OpenComanda starts a tab on a free table and marks the table occupied.
func (s *ComandaService) OpenComanda(restaurantID, tableID uuid.UUID) (*models.Comanda, error) {
	comanda := models.Comanda{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		TableID:      tableID,
		Status:       models.ComandaOpen,
		OpenedAt:     time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&table, "id = ?", tableID).Error
		if err != nil {
			return err
		}
		if table.Status != models.TableFree {
			return ErrTableOccupied
		}
		if err := tx.Model(&table).Update("status", models.TableOccupied).Error; err != nil {
			return err
		}
		return tx.Create(&comanda).Error
	})
	if err != nil {
		return nil, err
	}
	return &comanda, nil
}

func (s *ComandaService) ListOpen(restaurantID uuid.UUID) ([]models.Comanda, error) {
	var comandas []models.Comanda
	err := s.db.Preload("Items").Scopes(restaurant.Scope(restaurantID)).
		Where("status = ?", models.ComandaOpen).
		Order("opened_at").Find(&comandas).Error
	return comandas, err
}

func (s *ComandaService) Get(restaurantID, comandaID uuid.UUID) (*models.Comanda, error) {
	var comanda models.Comanda
	err := s.db.Preload("Items").Scopes(restaurant.Scope(restaurantID)).
		First(&comanda, "id = ?", comandaID).Error
	if err != nil {
		return nil, err
	}
	return &comanda, nil
}

// AddItem puts a product on an open comanda, snapshotting its name and price. Adding
// the same product with the same note bumps the existing line instead.
func (s *ComandaService) AddItem(restaurantID, comandaID uuid.UUID, req *dto.AddItemRequest) (*models.Comanda, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comanda models.Comanda
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&comanda, "id = ?", comandaID).Error
		if err != nil {
			return err
		}
		if comanda.Status != models.ComandaOpen {
			return ErrComandaNotOpen
		}

		var product models.Product
		err = tx.Scopes(restaurant.Scope(restaurantID)).
			First(&product, "id = ?", req.ProductID).Error
		if err != nil {
			return err
		}
		if !product.Available {
			return ErrProductUnavailable
		}

		qty := models.ClampQuantity(req.Quantity)

		var line models.ComandaItem
		err = tx.Where("comanda_id = ? AND product_id = ? AND note = ?",
			comanda.ID, product.ID, req.Note).First(&line).Error
		if err == nil {
			return tx.Model(&line).Update("quantity", line.Quantity+qty).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		line = models.ComandaItem{
			ID:             uuid.New(),
			ComandaID:      comanda.ID,
			ProductID:      &product.ID,
			Name:           product.Name,
			Quantity:       qty,
			UnitPriceCents: product.PriceCents,
			Note:           req.Note,
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(restaurantID, comandaID)
}

// SetItemQuantity updates a line's quantity, clamped to the one-item floor.
func (s *ComandaService) SetItemQuantity(restaurantID, comandaID, itemID uuid.UUID, quantity int) (*models.Comanda, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comanda models.Comanda
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&comanda, "id = ?", comandaID).Error
		if err != nil {
			return err
		}
		if comanda.Status != models.ComandaOpen {
			return ErrComandaNotOpen
		}

		var line models.ComandaItem
		if err := tx.Where("comanda_id = ?", comanda.ID).First(&line, "id = ?", itemID).Error; err != nil {
			return err
		}
		return tx.Model(&line).Update("quantity", models.ClampQuantity(quantity)).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(restaurantID, comandaID)
}

// RemoveItem deletes a line outright; this is the only way a line leaves a comanda.
func (s *ComandaService) RemoveItem(restaurantID, comandaID, itemID uuid.UUID) (*models.Comanda, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comanda models.Comanda
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&comanda, "id = ?", comandaID).Error
		if err != nil {
			return err
		}
		if comanda.Status != models.ComandaOpen {
			return ErrComandaNotOpen
		}
		return tx.Where("comanda_id = ?", comanda.ID).
			Delete(&models.ComandaItem{}, "id = ?", itemID).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(restaurantID, comandaID)
}

// Void cancels an open comanda without payment and frees its table.
func (s *ComandaService) Void(restaurantID, comandaID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comanda models.Comanda
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			First(&comanda, "id = ?", comandaID).Error
		if err != nil {
			return err
		}
		if comanda.Status != models.ComandaOpen {
			return ErrComandaNotOpen
		}

		now := time.Now()
		comanda.Status = models.ComandaVoided
		comanda.ClosedAt = &now
		if err := tx.Save(&comanda).Error; err != nil {
			return err
		}
		return tx.Model(&models.Table{}).Where("id = ?", comanda.TableID).
			Update("status", models.TableFree).Error
	})
}
