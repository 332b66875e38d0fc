package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"gorm.io/gorm"
)

// ReportService computes read-only aggregates for the dashboards.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DailySales sums sale movements per day over the given range.
func (s *ReportService) DailySales(restaurantID uuid.UUID, from, to time.Time) ([]dto.DailySales, error) {
	var rows []dto.DailySales
	err := s.db.Model(&models.CashMovement{}).
		Select("to_char(created_at, 'YYYY-MM-DD') AS day, COALESCE(SUM(amount_cents), 0) AS sales_cents, COUNT(*) AS sale_count").
		Where("restaurant_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			restaurantID, models.MovementSale, from, to).
		Group("day").
		Order("day").
		Scan(&rows).Error
	return rows, err
}

// TopProducts ranks products by quantity sold on paid comandas.
func (s *ReportService) TopProducts(restaurantID uuid.UUID, limit int) ([]dto.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []dto.TopProduct
	err := s.db.Model(&models.ComandaItem{}).
		Select("comanda_items.name, SUM(comanda_items.quantity) AS quantity").
		Joins("JOIN comandas ON comandas.id = comanda_items.comanda_id").
		Where("comandas.restaurant_id = ? AND comandas.status = ?", restaurantID, models.ComandaPaid).
		Group("comanda_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ComandaStats counts comandas by status.
func (s *ReportService) ComandaStats(restaurantID uuid.UUID) (*dto.ComandaStats, error) {
	stats := &dto.ComandaStats{}
	counts := []struct {
		status string
		dest   *int64
	}{
		{models.ComandaOpen, &stats.Open},
		{models.ComandaPaid, &stats.Paid},
		{models.ComandaVoided, &stats.Voided},
	}
	for _, c := range counts {
		err := s.db.Model(&models.Comanda{}).
			Where("restaurant_id = ? AND status = ?", restaurantID, c.status).
			Count(c.dest).Error
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
