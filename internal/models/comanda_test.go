package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0))
	assert.Equal(t, 1, ClampQuantity(-3))
	assert.Equal(t, 1, ClampQuantity(1))
	assert.Equal(t, 7, ClampQuantity(7))
}

func TestSubtotalCents(t *testing.T) {
	comanda := &Comanda{
		Items: []ComandaItem{
			{Quantity: 2, UnitPriceCents: 1500},
			{Quantity: 1, UnitPriceCents: 2000},
		},
	}
	assert.Equal(t, int64(5000), comanda.SubtotalCents())

	empty := &Comanda{}
	assert.Equal(t, int64(0), empty.SubtotalCents())
}

func TestSaleTotalCents(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		bps      int64
		want     int64
	}{
		{"default ten percent", 5000, 1000, 5500},
		{"no service charge", 5000, 0, 5000},
		{"truncates fractional cents", 333, 1000, 366},
		{"zero subtotal", 0, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SaleTotalCents(tt.subtotal, tt.bps))
		})
	}
}
