package dto

import "github.com/google/uuid"

type CreateTableRequest struct {
	Number int `json:"number" validate:"gt=0"`
}

type OpenComandaRequest struct {
	TableID uuid.UUID `json:"table_id" validate:"required"`
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}
