package dto

type InventoryItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Unit        string `json:"unit"`
	Quantity    int64  `json:"quantity" validate:"gte=0"`
	MinQuantity int64  `json:"min_quantity" validate:"gte=0"`
}

type StockMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=in out adjust"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}
