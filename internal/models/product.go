package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Prices are decimals end to end. Order items copy the decimal value at
// order-creation time, so later catalog edits never reach past orders.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stock_quantity"`
	Category      string          `json:"category"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=3,max=200"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int64           `json:"stock_quantity" validate:"gte=0"`
	Category      string          `json:"category" validate:"required"`
	ImageURL      string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int64           `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Category      *string          `json:"category,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,url"`
}
