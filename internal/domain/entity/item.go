package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo almacenado (agregado de valoración, multi-empresa).
// QuantityOnHand y AverageUnitCost los muta exclusivamente el motor de valoración;
// el costo promedio ponderado (CPP) es 0 siempre que la cantidad sea 0.
type Item struct {
	ID              string
	CompanyID       string
	SKU             string // código único por empresa
	Name            string
	Category        string
	QuantityOnHand  decimal.Decimal
	AverageUnitCost decimal.Decimal
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalValue devuelve cantidad × costo promedio redondeado a 2 decimales (valor monetario).
func (i *Item) TotalValue() decimal.Decimal {
	return i.QuantityOnHand.Mul(i.AverageUnitCost).Round(2)
}
