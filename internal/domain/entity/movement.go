package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind es el vocabulario cerrado de tipos de movimiento del libro.
// Los tipos de entrada suman cantidad, los de salida restan, TRANSFER es neutro
// (mueve cantidad entre bodegas sin alterar el total ni el costo del artículo).
type MovementKind string

const (
	// Entradas
	KindPurchase     MovementKind = "PURCHASE"
	KindImport       MovementKind = "IMPORT"
	KindReturn       MovementKind = "RETURN"
	KindReceive      MovementKind = "RECEIVE"
	KindAdjustmentIn MovementKind = "ADJUSTMENT_IN"

	// Salidas
	KindDispatch      MovementKind = "DISPATCH"
	KindSale          MovementKind = "SALE"
	KindAdjustmentOut MovementKind = "ADJUSTMENT_OUT"

	// Neutro
	KindTransfer MovementKind = "TRANSFER"
)

// IsEntry indica si el tipo suma cantidad.
func (k MovementKind) IsEntry() bool {
	switch k {
	case KindPurchase, KindImport, KindReturn, KindReceive, KindAdjustmentIn:
		return true
	}
	return false
}

// IsExit indica si el tipo resta cantidad.
func (k MovementKind) IsExit() bool {
	switch k {
	case KindDispatch, KindSale, KindAdjustmentOut:
		return true
	}
	return false
}

// Valid indica si el tipo pertenece al vocabulario.
func (k MovementKind) Valid() bool {
	return k.IsEntry() || k.IsExit() || k == KindTransfer
}

// MovementReference enlaza el movimiento con el documento de negocio que lo originó
// (factura, orden de compra, nota de ajuste, etc.) y con su contexto físico.
type MovementReference struct {
	FromWarehouseID string
	FromLocationID  string
	ToWarehouseID   string
	ToLocationID    string
	ReferenceType   string
	ReferenceID     string
	Reason          string
	PerformedBy     string // UserID
}

// Movement es un registro del libro de movimientos (append-only).
// Quantity es siempre magnitud positiva; el signo lo implica Kind.
// UnitCost aplica solo a entradas (nil en salidas: se usa el CPP vigente).
// AverageCostAfter es el registro histórico autoritativo del CPP tras el evento;
// solo la recalculación de auditoría puede reescribirlo.
type Movement struct {
	ID               string
	CompanyID        string
	ItemID           string
	Kind             MovementKind
	Quantity         decimal.Decimal
	UnitCost         *decimal.Decimal
	AverageCostAfter decimal.Decimal
	FromWarehouseID  string
	FromLocationID   string
	ToWarehouseID    string
	ToLocationID     string
	ReferenceType    string
	ReferenceID      string
	Reason           string
	PerformedBy      string
	CreatedAt        time.Time
}
