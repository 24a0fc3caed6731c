package repository

import "github.com/shopspring/decimal"

// CategoryValuation valor de inventario agregado por categoría.
type CategoryValuation struct {
	Category  string
	ItemCount int
	Quantity  decimal.Decimal
	Value     decimal.Decimal
}

// WarehouseItemValuation cantidad reconstruida de un artículo dentro de una bodega,
// valorada al CPP global vigente del artículo.
type WarehouseItemValuation struct {
	ItemID      string
	SKU         string
	Name        string
	Category    string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	Value       decimal.Decimal
}

// ValuationRepository consultas de solo lectura para valoración agregada.
// No toma bloqueos: los lectores pueden observar un snapshot consistente pero
// potencialmente desfasado respecto a mutaciones concurrentes.
type ValuationRepository interface {
	// GetCompanyValuation agrupa artículos activos con cantidad positiva por
	// categoría, sumando cantidad × CPP desde el agregado (camino rápido).
	GetCompanyValuation(companyID string) ([]CategoryValuation, error)
	// GetWarehouseItems reconstruye la cantidad por artículo en una bodega
	// a partir del libro: +cantidad cuando la bodega es destino, -cantidad
	// cuando es origen. Excluye artículos con cantidad reconstruida <= 0.
	GetWarehouseItems(companyID, warehouseID string) ([]WarehouseItemValuation, error)
}
