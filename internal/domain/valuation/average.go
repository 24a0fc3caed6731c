package valuation

import "github.com/shopspring/decimal"

// Precisión del contrato numérico: costos unitarios y promedios a 4 decimales,
// totales monetarios (cantidad × costo) a 2 decimales.
const (
	CostPlaces  = 4
	MoneyPlaces = 2
)

// WeightedAverage implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Con stock actual <= 0 el promedio previo se descarta y el nuevo costo es el de la entrada
// (evita división por cero y no arrastra un promedio obsoleto sobre posición vacía).
func WeightedAverage(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return costoEntrada.Round(CostPlaces)
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(CostPlaces)
}

// RoundCost redondea un costo unitario o promedio al contrato de 4 decimales.
func RoundCost(c decimal.Decimal) decimal.Decimal {
	return c.Round(CostPlaces)
}

// RoundMoney redondea un total monetario al contrato de 2 decimales.
func RoundMoney(m decimal.Decimal) decimal.Decimal {
	return m.Round(MoneyPlaces)
}
