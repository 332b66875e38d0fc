package services

import (
	"strings"
	"testing"

	"github.com/manaujo/chefcomanda/internal/dto"
	"github.com/manaujo/chefcomanda/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Cantina do Zé", "cantina-do-z"},
		{"  Bar & Grill  ", "bar-grill"},
		{"Pizzaria 23", "pizzaria-23"},
		{"---", ""},
		{"Já-Comi", "j-comi"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestRegisterSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	first, err := svc.Register(&dto.RegisterRequest{
		Name:           "Ana",
		Email:          "ana@porto.test",
		Password:       "segredo-forte",
		RestaurantName: "Cantina do Porto",
	})
	require.NoError(t, err)

	// Same restaurant name must not break the second registration.
	second, err := svc.Register(&dto.RegisterRequest{
		Name:           "Bruno",
		Email:          "bruno@porto.test",
		Password:       "segredo-forte",
		RestaurantName: "Cantina do Porto",
	})
	require.NoError(t, err)

	var restFirst, restSecond models.Restaurant
	require.NoError(t, db.First(&restFirst, "owner_id = ?", first.User.ID).Error)
	require.NoError(t, db.First(&restSecond, "owner_id = ?", second.User.ID).Error)

	assert.Equal(t, "cantina-do-porto", restFirst.Slug)
	assert.True(t, strings.HasPrefix(restSecond.Slug, "cantina-do-porto-"))
	assert.NotEqual(t, restFirst.Slug, restSecond.Slug)
}
