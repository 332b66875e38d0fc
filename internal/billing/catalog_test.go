package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanByPriceID(t *testing.T) {
	plan, ok := PlanByPriceID("price_chefcomanda_pro_month")
	require.True(t, ok)
	assert.Equal(t, "pro-monthly", plan.ID)
	assert.Equal(t, "Professional", plan.Name)

	_, ok = PlanByPriceID("price_unknown")
	assert.False(t, ok)

	_, ok = PlanByPriceID("")
	assert.False(t, ok)
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode(ModePayment))
	assert.True(t, ValidMode(ModeSubscription))
	assert.False(t, ValidMode(""))
	assert.False(t, ValidMode("setup"))
}

func TestPlansReturnsCopy(t *testing.T) {
	plans := Plans()
	require.NotEmpty(t, plans)

	plans[0].Name = "mutated"
	again := Plans()
	assert.NotEqual(t, "mutated", again[0].Name)
}
