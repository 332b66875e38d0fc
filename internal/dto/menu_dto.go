package dto

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gt=0"`
	Available   *bool  `json:"available"`
}

type MenuItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
}

type MenuSection struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

type PublicMenuResponse struct {
	Restaurant string        `json:"restaurant"`
	Sections   []MenuSection `json:"sections"`
}
