package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRegisterOnePerRestaurant(t *testing.T) {
	db := newTestDB(t)
	svc := NewPOSService(db)

	restaurantID := uuid.New()
	operatorID := uuid.New()

	_, err := svc.OpenRegister(restaurantID, operatorID, 10000)
	require.NoError(t, err)

	_, err = svc.OpenRegister(restaurantID, operatorID, 0)
	assert.ErrorIs(t, err, ErrRegisterAlreadyOpen)

	// Another restaurant's register is independent.
	_, err = svc.OpenRegister(uuid.New(), operatorID, 0)
	assert.NoError(t, err)

	// Closing frees the slot for a fresh session.
	_, err = svc.CloseRegister(restaurantID)
	require.NoError(t, err)
	_, err = svc.OpenRegister(restaurantID, operatorID, 500)
	assert.NoError(t, err)
}

func TestFinalizeSale(t *testing.T) {
	db := newTestDB(t)
	svc := NewPOSService(db)

	restaurantID := uuid.New()
	require.NoError(t, db.Create(&models.Restaurant{
		ID:               restaurantID,
		OwnerID:          uuid.New(),
		Name:             "Cantina do Porto",
		Slug:             "cantina-do-porto",
		ServiceChargeBps: 1000,
	}).Error)

	table := models.Table{
		ID: uuid.New(), RestaurantID: restaurantID, Number: 1, Status: models.TableOccupied,
	}
	require.NoError(t, db.Create(&table).Error)

	comanda := models.Comanda{
		ID: uuid.New(), RestaurantID: restaurantID, TableID: table.ID, Status: models.ComandaOpen,
	}
	require.NoError(t, db.Create(&comanda).Error)
	require.NoError(t, db.Create(&models.ComandaItem{
		ID: uuid.New(), ComandaID: comanda.ID, Name: "Feijoada", Quantity: 2, UnitPriceCents: 2000,
	}).Error)
	require.NoError(t, db.Create(&models.ComandaItem{
		ID: uuid.New(), ComandaID: comanda.ID, Name: "Suco", Quantity: 1, UnitPriceCents: 1000,
	}).Error)

	// No open register, no sale.
	_, err := svc.FinalizeSale(restaurantID, comanda.ID)
	assert.ErrorIs(t, err, ErrNoOpenRegister)

	session, err := svc.OpenRegister(restaurantID, uuid.New(), 10000)
	require.NoError(t, err)

	sale, err := svc.FinalizeSale(restaurantID, comanda.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), sale.SubtotalCents)
	assert.Equal(t, int64(500), sale.ServiceChargeCents)
	assert.Equal(t, int64(5500), sale.TotalCents)
	assert.Equal(t, int64(15500), sale.BalanceCents)

	var reloaded models.CashSession
	require.NoError(t, db.First(&reloaded, "id = ?", session.ID).Error)
	assert.Equal(t, int64(15500), reloaded.BalanceCents)

	var movement models.CashMovement
	require.NoError(t, db.Where("session_id = ? AND type = ?",
		session.ID, models.MovementSale).First(&movement).Error)
	assert.Equal(t, int64(5500), movement.AmountCents)
	require.NotNil(t, movement.ComandaID)
	assert.Equal(t, comanda.ID, *movement.ComandaID)

	var paid models.Comanda
	require.NoError(t, db.First(&paid, "id = ?", comanda.ID).Error)
	assert.Equal(t, models.ComandaPaid, paid.Status)

	var freed models.Table
	require.NoError(t, db.First(&freed, "id = ?", table.ID).Error)
	assert.Equal(t, models.TableFree, freed.Status)

	// Paying the same comanda twice is rejected.
	_, err = svc.FinalizeSale(restaurantID, comanda.ID)
	assert.ErrorIs(t, err, ErrComandaNotOpen)
}

func TestFinalizeSaleEmptyComanda(t *testing.T) {
	db := newTestDB(t)
	svc := NewPOSService(db)

	restaurantID := uuid.New()
	require.NoError(t, db.Create(&models.Restaurant{
		ID: restaurantID, OwnerID: uuid.New(), Name: "Bar", Slug: "bar", ServiceChargeBps: 1000,
	}).Error)
	table := models.Table{
		ID: uuid.New(), RestaurantID: restaurantID, Number: 2, Status: models.TableOccupied,
	}
	require.NoError(t, db.Create(&table).Error)
	comanda := models.Comanda{
		ID: uuid.New(), RestaurantID: restaurantID, TableID: table.ID, Status: models.ComandaOpen,
	}
	require.NoError(t, db.Create(&comanda).Error)

	_, err := svc.OpenRegister(restaurantID, uuid.New(), 0)
	require.NoError(t, err)

	_, err = svc.FinalizeSale(restaurantID, comanda.ID)
	assert.ErrorIs(t, err, ErrEmptyComanda)
}
