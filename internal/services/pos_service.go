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
	ErrRegisterAlreadyOpen = errors.New("a cash session is already open")
	ErrNoOpenRegister      = errors.New("no open cash session")
	ErrNegativeOpening     = errors.New("opening amount must not be negative")
	ErrEmptyComanda        = errors.New("comanda has no items")
)

// POSService drives the durable cash-register state machine. Sessions and their
// movements live in the database, so a crashed client never loses an open sale.
type POSService struct {
	db *gorm.DB
}

func NewPOSService(db *gorm.DB) *POSService {
	return &POSService{db: db}
}

// OpenRegister starts a session with the given opening float. Only one session may
// be open per restaurant at a time.
func (s *POSService) OpenRegister(restaurantID, operatorID uuid.UUID, openingCents int64) (*models.CashSession, error) {
	if openingCents < 0 {
		return nil, ErrNegativeOpening
	}

	session := models.CashSession{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		OperatorID:   operatorID,
		Status:       models.CashSessionOpen,
		OpeningCents: openingCents,
		BalanceCents: openingCents,
		OpenedAt:     time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var open models.CashSession
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			Where("status = ?", models.CashSessionOpen).First(&open).Error
		if err == nil {
			return ErrRegisterAlreadyOpen
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CurrentSession returns the open session for the restaurant.
func (s *POSService) CurrentSession(restaurantID uuid.UUID) (*models.CashSession, error) {
	var session models.CashSession
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Where("status = ?", models.CashSessionOpen).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOpenRegister
		}
		return nil, err
	}
	return &session, nil
}

// CloseRegister stamps the final balance and closes the session.
func (s *POSService) CloseRegister(restaurantID uuid.UUID) (*models.CashSession, error) {
	session, err := s.CurrentSession(restaurantID)
	if err != nil {
		return nil, err
	}

	if err := session.Close(time.Now()); err != nil {
		return nil, err
	}
	if err := s.db.Save(session).Error; err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	return session, nil
}

// RecordMovement appends a deposit or withdrawal to the open session's ledger.
func (s *POSService) RecordMovement(restaurantID uuid.UUID, req *dto.MovementRequest) (*models.CashSession, error) {
	session, err := s.CurrentSession(restaurantID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := session.Apply(req.Type, req.AmountCents); err != nil {
			return err
		}
		if err := tx.Save(session).Error; err != nil {
			return err
		}
		movement := models.CashMovement{
			ID:           uuid.New(),
			SessionID:    session.ID,
			RestaurantID: restaurantID,
			Type:         req.Type,
			AmountCents:  req.AmountCents,
			Description:  req.Description,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Movements lists the ledger for the open session, newest first.
func (s *POSService) Movements(restaurantID uuid.UUID) ([]models.CashMovement, error) {
	session, err := s.CurrentSession(restaurantID)
	if err != nil {
		return nil, err
	}

	var movements []models.CashMovement
	err = s.db.Where("session_id = ?", session.ID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}

// FinalizeSale pays an open comanda through the open register: computes the total
// with the restaurant's service charge, credits the drawer, appends the sale
// movement, marks the comanda paid and frees its table. All or nothing.
func (s *POSService) FinalizeSale(restaurantID uuid.UUID, comandaID uuid.UUID) (*dto.SaleResponse, error) {
	var resp *dto.SaleResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.CashSession
		err := tx.Scopes(restaurant.Scope(restaurantID)).
			Where("status = ?", models.CashSessionOpen).First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoOpenRegister
			}
			return err
		}

		var comanda models.Comanda
		err = tx.Preload("Items").Scopes(restaurant.Scope(restaurantID)).
			First(&comanda, "id = ?", comandaID).Error
		if err != nil {
			return err
		}
		if comanda.Status != models.ComandaOpen {
			return ErrComandaNotOpen
		}
		if len(comanda.Items) == 0 {
			return ErrEmptyComanda
		}

		var rest models.Restaurant
		if err := tx.First(&rest, "id = ?", restaurantID).Error; err != nil {
			return err
		}

		subtotal := comanda.SubtotalCents()
		total := models.SaleTotalCents(subtotal, rest.ServiceChargeBps)

		if err := session.Apply(models.MovementSale, total); err != nil {
			return err
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		movement := models.CashMovement{
			ID:           uuid.New(),
			SessionID:    session.ID,
			RestaurantID: restaurantID,
			Type:         models.MovementSale,
			AmountCents:  total,
			ComandaID:    &comanda.ID,
			Description:  fmt.Sprintf("sale for table comanda %s", comanda.ID),
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		now := time.Now()
		comanda.Status = models.ComandaPaid
		comanda.ClosedAt = &now
		if err := tx.Save(&comanda).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Table{}).Where("id = ?", comanda.TableID).
			Update("status", models.TableFree).Error
		if err != nil {
			return err
		}

		resp = &dto.SaleResponse{
			ComandaID:          comanda.ID,
			SubtotalCents:      subtotal,
			ServiceChargeCents: total - subtotal,
			TotalCents:         total,
			BalanceCents:       session.BalanceCents,
			PaidAt:             now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
