package billing

// Checkout modes accepted by the session issuer.
const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// Plan is a compile-time catalog entry mapping a Stripe price to a display plan.
// The catalog is not fetched at runtime; it only exists to render plan cards and to
// resolve a price id back to a human-readable name.
type Plan struct {
	ID          string `json:"id"`
	PriceID     string `json:"price_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        string `json:"mode"`
}

var catalog = []Plan{
	{
		ID:          "basic-monthly",
		PriceID:     "price_chefcomanda_basic_month",
		Name:        "Basic",
		Description: "Tables, comandas and the cash register for a single restaurant.",
		Mode:        ModeSubscription,
	},
	{
		ID:          "pro-monthly",
		PriceID:     "price_chefcomanda_pro_month",
		Name:        "Professional",
		Description: "Everything in Basic plus inventory, reports and unlimited staff.",
		Mode:        ModeSubscription,
	},
	{
		ID:          "pro-annual",
		PriceID:     "price_chefcomanda_pro_year",
		Name:        "Professional (annual)",
		Description: "Professional billed yearly, two months free.",
		Mode:        ModeSubscription,
	},
}

// Plans returns the full catalog in display order.
func Plans() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// PlanByPriceID resolves a gateway price id to its catalog entry.
func PlanByPriceID(priceID string) (Plan, bool) {
	for _, p := range catalog {
		if p.PriceID == priceID {
			return p, true
		}
	}
	return Plan{}, false
}

// ValidMode reports whether the checkout mode is one the issuer accepts.
func ValidMode(mode string) bool {
	return mode == ModePayment || mode == ModeSubscription
}
