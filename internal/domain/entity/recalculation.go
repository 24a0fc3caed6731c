package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recalculation registra una invocación del replay correctivo sobre el libro
// de un artículo. Es la excepción auditada a la inmutabilidad del histórico:
// quién la ejecutó, cuándo y cuántos registros reescribió.
type Recalculation struct {
	ID               string
	CompanyID        string
	ItemID           string
	PreviousQuantity decimal.Decimal
	PreviousCost     decimal.Decimal
	NewQuantity      decimal.Decimal
	NewCost          decimal.Decimal
	EntriesRewritten int
	PerformedBy      string
	CreatedAt        time.Time
}
