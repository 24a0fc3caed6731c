package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRefRequest enlace opcional al documento de negocio y contexto físico.
type MovementRefRequest struct {
	WarehouseID   string `json:"warehouse_id,omitempty"`
	LocationID    string `json:"location_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// RegisterEntryRequest body para POST /api/ledger/entries.
type RegisterEntryRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Kind     string          `json:"kind,omitempty"` // PURCHASE, IMPORT, RETURN, RECEIVE
	MovementRefRequest
}

// RegisterExitRequest body para POST /api/ledger/exits.
type RegisterExitRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Kind     string          `json:"kind,omitempty"` // DISPATCH, SALE
	MovementRefRequest
}

// RegisterAdjustmentRequest body para POST /api/ledger/adjustments.
// QuantityDelta con signo; UnitCost opcional y solo para deltas positivos.
type RegisterAdjustmentRequest struct {
	ItemID        string           `json:"item_id"`
	QuantityDelta decimal.Decimal  `json:"quantity_delta"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	MovementRefRequest
}

// RegisterTransferRequest body para POST /api/ledger/transfers.
type RegisterTransferRequest struct {
	ItemID          string          `json:"item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	Reason          string          `json:"reason,omitempty"`
}

// EntryResponse cifras de una entrada registrada.
type EntryResponse struct {
	MovementID     string          `json:"movement_id"`
	NewAverageCost decimal.Decimal `json:"new_average_cost"`
	NewQuantity    decimal.Decimal `json:"new_quantity"`
	NewTotalValue  decimal.Decimal `json:"new_total_value"`
}

// ExitResponse cifras de una salida registrada.
type ExitResponse struct {
	MovementID        string          `json:"movement_id"`
	CostOfExit        decimal.Decimal `json:"cost_of_exit"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	RemainingValue    decimal.Decimal `json:"remaining_value"`
}

// AdjustmentResponse resultado del ajuste según su dirección.
type AdjustmentResponse struct {
	Kind  string         `json:"kind"`
	Entry *EntryResponse `json:"entry,omitempty"`
	Exit  *ExitResponse  `json:"exit,omitempty"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	MovementID  string          `json:"movement_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// RecalculateResponse valoración tras el replay correctivo.
type RecalculateResponse struct {
	ItemID           string          `json:"item_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
	EntriesReplayed  int             `json:"entries_replayed"`
	EntriesRewritten int             `json:"entries_rewritten"`
}

// RecalculationAuditDTO fila de bitácora de un replay correctivo.
type RecalculationAuditDTO struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	PreviousCost     decimal.Decimal `json:"previous_cost"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	NewCost          decimal.Decimal `json:"new_cost"`
	EntriesRewritten int             `json:"entries_rewritten"`
	PerformedBy      string          `json:"performed_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ItemValuationResponse valoración puntual de un artículo.
type ItemValuationResponse struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// CategoryValuationDTO valor agregado por categoría.
type CategoryValuationDTO struct {
	Category  string          `json:"category"`
	ItemCount int             `json:"item_count"`
	Quantity  decimal.Decimal `json:"quantity"`
	Value     decimal.Decimal `json:"value"`
}

// WarehouseItemDTO artículo con cantidad reconstruida dentro de una bodega.
type WarehouseItemDTO struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Value       decimal.Decimal `json:"value"`
}

// WarehouseValuationResponse respuesta de GET /api/ledger/valuation.
type WarehouseValuationResponse struct {
	WarehouseID string                 `json:"warehouse_id,omitempty"`
	Categories  []CategoryValuationDTO `json:"categories"`
	Items       []WarehouseItemDTO     `json:"items,omitempty"`
	TotalValue  decimal.Decimal        `json:"total_value"`
}

// CostHistoryEntryDTO registro del histórico con la cadena antes/después del CPP.
type CostHistoryEntryDTO struct {
	MovementID        string           `json:"movement_id"`
	Kind              string           `json:"kind"`
	Quantity          decimal.Decimal  `json:"quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	AverageCostBefore decimal.Decimal  `json:"average_cost_before"`
	AverageCostAfter  decimal.Decimal  `json:"average_cost_after"`
	TotalCost         decimal.Decimal  `json:"total_cost"`
	ReferenceType     string           `json:"reference_type,omitempty"`
	ReferenceID       string           `json:"reference_id,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	PerformedBy       string           `json:"performed_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
