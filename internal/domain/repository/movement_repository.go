package repository

import (
	"time"

	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only; UpdateAverageCostAfter existe solo para la
// recalculación de auditoría.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// ListByItem devuelve los movimientos de un artículo en orden cronológico
	// ascendente, opcionalmente acotados por fechas.
	ListByItem(companyID, itemID string, from, to *time.Time) ([]*entity.Movement, error)
	// UpdateAverageCostAfter reescribe el CPP histórico de un registro (solo replay correctivo).
	UpdateAverageCostAfter(movementID string, averageCostAfter decimal.Decimal) error
}
