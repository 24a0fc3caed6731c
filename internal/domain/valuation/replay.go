package valuation

import (
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// State es el par (cantidad, costo promedio) de un artículo durante un replay.
// La misma máquina de estados la usan el motor en vivo y la recalculación de
// auditoría: aplicar el libro en orden cronológico desde Zero reconstruye el
// agregado de forma determinista.
type State struct {
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// Zero estado inicial de un artículo sin movimientos.
func Zero() State {
	return State{Quantity: decimal.Zero, AverageCost: decimal.Zero}
}

// ApplyEntry aplica una entrada: suma cantidad y recalcula el CPP.
func (s State) ApplyEntry(quantity, unitCost decimal.Decimal) State {
	return State{
		Quantity:    s.Quantity.Add(quantity),
		AverageCost: WeightedAverage(s.Quantity, s.AverageCost, quantity, unitCost),
	}
}

// ApplyExit aplica una salida: resta cantidad; el CPP no cambia salvo que la
// posición quede en cero, donde se descarta (una posición vacía no conserva costo).
func (s State) ApplyExit(quantity decimal.Decimal) State {
	remaining := s.Quantity.Sub(quantity)
	cost := s.AverageCost
	if remaining.LessThanOrEqual(decimal.Zero) {
		cost = decimal.Zero
	}
	return State{Quantity: remaining, AverageCost: cost}
}

// ApplyMovement aplica un registro del libro según su tipo. TRANSFER es neutro.
func (s State) ApplyMovement(m *entity.Movement) State {
	switch {
	case m.Kind.IsEntry():
		unitCost := decimal.Zero
		if m.UnitCost != nil {
			unitCost = *m.UnitCost
		}
		return s.ApplyEntry(m.Quantity, unitCost)
	case m.Kind.IsExit():
		return s.ApplyExit(m.Quantity)
	}
	return s
}
