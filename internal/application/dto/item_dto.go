package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	InitialQuantity decimal.Decimal `json:"initial_quantity,omitempty"`
	InitialCost     decimal.Decimal `json:"initial_cost,omitempty"`
}

// ItemResponse representación pública de un artículo.
type ItemResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category,omitempty"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
