package repository

import (
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemRepository define el puerto de persistencia para el agregado Item (DIP).
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(companyID, itemID string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del artículo durante la transacción (SELECT FOR UPDATE).
	// Garantiza a lo sumo un mutador concurrente por artículo.
	GetForUpdate(companyID, itemID string) (*entity.Item, error)
	// UpdateValuation escribe cantidad y costo promedio del agregado.
	UpdateValuation(companyID, itemID string, quantity, averageCost decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
}
