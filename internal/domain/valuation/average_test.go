package valuation_test

import (
	"testing"

	"github.com/jhoicas/cpp-ledger/internal/domain/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Casos del cálculo de costo promedio ponderado, incluyendo el redondeo a 4
// decimales y el descarte del promedio sobre posición vacía.
func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name         string
		stockActual  string
		costoActual  string
		cantEntrada  string
		costoEntrada string
		expected     string
	}{
		{"posición vacía toma el costo de la entrada", "0", "0", "10", "1000", "1000"},
		{"posición vacía descarta promedio previo", "0", "999", "10", "1000", "1000"},
		{"promedio ponderado básico", "10", "1000", "5", "1300", "1100"},
		{"entrada al mismo costo no cambia el promedio", "8", "250", "2", "250", "250"},
		{"redondeo a 4 decimales", "7", "3.1111", "3", "5.2222", "3.7444"},
		{"división periódica redondeada", "1", "1", "2", "2", "1.6667"},
		{"entrada a costo cero diluye el promedio", "5", "100", "5", "0", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valuation.WeightedAverage(d(tt.stockActual), d(tt.costoActual), d(tt.cantEntrada), d(tt.costoEntrada))
			assert.True(t, got.Equal(d(tt.expected)),
				"esperado %s, obtenido %s", tt.expected, got.String())
		})
	}
}

func TestRounding(t *testing.T) {
	assert.Equal(t, "10.2346", valuation.RoundCost(d("10.23456")).String())
	assert.Equal(t, "10.23", valuation.RoundMoney(d("10.2346")).String())
}

// El escenario de referencia del motor: 10@1000, 5@1300, salida 6, salida 9.
func TestState_EscenarioReferencia(t *testing.T) {
	s := valuation.Zero()

	s = s.ApplyEntry(d("10"), d("1000"))
	assert.Equal(t, "10", s.Quantity.String())
	assert.Equal(t, "1000", s.AverageCost.String())

	s = s.ApplyEntry(d("5"), d("1300"))
	assert.Equal(t, "15", s.Quantity.String())
	assert.Equal(t, "1100", s.AverageCost.String())

	s = s.ApplyExit(d("6"))
	assert.Equal(t, "9", s.Quantity.String())
	assert.Equal(t, "1100", s.AverageCost.String(), "la salida no cambia el promedio")

	s = s.ApplyExit(d("9"))
	assert.Equal(t, "0", s.Quantity.String())
	assert.True(t, s.AverageCost.IsZero(), "posición vacía resetea el costo a 0")
}
