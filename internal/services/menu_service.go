package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/manaujo/chefcomanda/internal/restaurant"
	"github.com/redis/go-redis/v9"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

const menuCacheTTL = 60 * time.Second

// MenuService manages products and serves the public digital menu. The rendered
// menu is cached in Redis per restaurant slug and invalidated on every product
// mutation; cache failures degrade to a database read.
type MenuService struct {
	db            *gorm.DB
	rdb           *redis.Client
	publicBaseURL string
}

func NewMenuService(db *gorm.DB, rdb *redis.Client, publicBaseURL string) *MenuService {
	return &MenuService{db: db, rdb: rdb, publicBaseURL: publicBaseURL}
}

func (s *MenuService) CreateProduct(ctx context.Context, restaurantID uuid.UUID, req *dto.ProductRequest) (*models.Product, error) {
	product := models.Product{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		PriceCents:   req.PriceCents,
		Available:    true,
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidateMenu(ctx, restaurantID)
	return &product, nil
}

func (s *MenuService) UpdateProduct(ctx context.Context, restaurantID, productID uuid.UUID, req *dto.ProductRequest) (*models.Product, error) {
	var product models.Product
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		First(&product, "id = ?", productID).Error
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"category":    req.Category,
		"price_cents": req.PriceCents,
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	s.invalidateMenu(ctx, restaurantID)
	return &product, nil
}

func (s *MenuService) DeleteProduct(ctx context.Context, restaurantID, productID uuid.UUID) error {
	result := s.db.Scopes(restaurant.Scope(restaurantID)).
		Delete(&models.Product{}, "id = ?", productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.invalidateMenu(ctx, restaurantID)
	return nil
}

func (s *MenuService) ListProducts(restaurantID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := s.db.Scopes(restaurant.Scope(restaurantID)).
		Order("category, name").Find(&products).Error
	return products, err
}

// PublicMenu returns the available products of a restaurant grouped by category,
// for unauthenticated menu views.
func (s *MenuService) PublicMenu(ctx context.Context, slug string) (*dto.PublicMenuResponse, error) {
	if cached := s.cachedMenu(ctx, slug); cached != nil {
		return cached, nil
	}

	var rest models.Restaurant
	if err := s.db.Where("slug = ?", slug).First(&rest).Error; err != nil {
		return nil, ErrRestaurantNotFound
	}

	var products []models.Product
	err := s.db.Scopes(restaurant.Scope(rest.ID)).
		Where("available = true").
		Order("category, name").Find(&products).Error
	if err != nil {
		return nil, err
	}

	menu := &dto.PublicMenuResponse{Restaurant: rest.Name}
	var current *dto.MenuSection
	for _, p := range products {
		if current == nil || current.Category != p.Category {
			menu.Sections = append(menu.Sections, dto.MenuSection{Category: p.Category})
			current = &menu.Sections[len(menu.Sections)-1]
		}
		current.Items = append(current.Items, dto.MenuItem{
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
		})
	}

	s.cacheMenu(ctx, slug, menu)
	return menu, nil
}

// MenuQRCode renders a PNG QR code pointing at the public menu page.
func (s *MenuService) MenuQRCode(slug string) ([]byte, error) {
	var rest models.Restaurant
	if err := s.db.Where("slug = ?", slug).First(&rest).Error; err != nil {
		return nil, ErrRestaurantNotFound
	}
	return qrcode.Encode(s.publicBaseURL+"/api/public/menu/"+rest.Slug, qrcode.Medium, 256)
}

func (s *MenuService) cachedMenu(ctx context.Context, slug string) *dto.PublicMenuResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, menuCacheKey(slug)).Bytes()
	if err != nil {
		return nil
	}
	var menu dto.PublicMenuResponse
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil
	}
	return &menu
}

func (s *MenuService) cacheMenu(ctx context.Context, slug string, menu *dto.PublicMenuResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(menu)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, menuCacheKey(slug), raw, menuCacheTTL).Err(); err != nil {
		slog.Warn("menu cache write failed", "slug", slug, "error", err)
	}
}

func (s *MenuService) invalidateMenu(ctx context.Context, restaurantID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	var rest models.Restaurant
	if err := s.db.First(&rest, "id = ?", restaurantID).Error; err != nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey(rest.Slug)).Err(); err != nil {
		slog.Warn("menu cache invalidation failed", "slug", rest.Slug, "error", err)
	}
}

func menuCacheKey(slug string) string {
	return "menu:" + slug
}
