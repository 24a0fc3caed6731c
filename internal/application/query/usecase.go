package query

import (
	"context"
	"time"

	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/jhoicas/cpp-ledger/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ValuationUseCase derivaciones de solo lectura sobre el agregado y el libro.
// No toma bloqueos: puede observar un snapshot desfasado frente a mutaciones
// concurrentes, lo cual es aceptable para valoración.
type ValuationUseCase struct {
	itemRepo      repository.ItemRepository
	movRepo       repository.MovementRepository
	valuationRepo repository.ValuationRepository
	recalcRepo    repository.RecalculationRepository
}

// NewValuationUseCase construye el caso de uso de consultas.
func NewValuationUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	valuationRepo repository.ValuationRepository,
	recalcRepo repository.RecalculationRepository,
) *ValuationUseCase {
	return &ValuationUseCase{
		itemRepo:      itemRepo,
		movRepo:       movRepo,
		valuationRepo: valuationRepo,
		recalcRepo:    recalcRepo,
	}
}

// ItemValuation valoración puntual de un artículo leída del agregado.
type ItemValuation struct {
	ItemID      string
	SKU         string
	Name        string
	Category    string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	TotalValue  decimal.Decimal
}

// GetItemValuation lee cantidad, CPP y valor total directamente del agregado.
func (uc *ValuationUseCase) GetItemValuation(ctx context.Context, companyID, itemID string) (*ItemValuation, error) {
	item, err := uc.itemRepo.GetByID(companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return &ItemValuation{
		ItemID:      item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Category:    item.Category,
		Quantity:    item.QuantityOnHand,
		AverageCost: item.AverageUnitCost,
		TotalValue:  item.TotalValue(),
	}, nil
}

// WarehouseValuation valoración agregada por categoría, global o por bodega.
type WarehouseValuation struct {
	WarehouseID string // vacío en la forma global
	Categories  []repository.CategoryValuation
	Items       []repository.WarehouseItemValuation // solo forma por bodega
	TotalValue  decimal.Decimal
}

// GetWarehouseValuation forma global (warehouseID vacío): agrupa por categoría
// desde el agregado (camino rápido). Forma por bodega: reconstruye la cantidad
// por artículo desde el libro (contribución con signo según origen/destino) y
// valora al CPP global vigente del artículo — el costo se rastrea por artículo
// a nivel de empresa, no por bodega.
func (uc *ValuationUseCase) GetWarehouseValuation(ctx context.Context, companyID, warehouseID string) (*WarehouseValuation, error) {
	if warehouseID == "" {
		categories, err := uc.valuationRepo.GetCompanyValuation(companyID)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, c := range categories {
			total = total.Add(c.Value)
		}
		return &WarehouseValuation{Categories: categories, TotalValue: valuation.RoundMoney(total)}, nil
	}

	items, err := uc.valuationRepo.GetWarehouseItems(companyID, warehouseID)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string]*repository.CategoryValuation)
	var order []string
	total := decimal.Zero
	for _, it := range items {
		cat, ok := byCategory[it.Category]
		if !ok {
			cat = &repository.CategoryValuation{Category: it.Category, Quantity: decimal.Zero, Value: decimal.Zero}
			byCategory[it.Category] = cat
			order = append(order, it.Category)
		}
		cat.ItemCount++
		cat.Quantity = cat.Quantity.Add(it.Quantity)
		cat.Value = cat.Value.Add(it.Value)
		total = total.Add(it.Value)
	}
	categories := make([]repository.CategoryValuation, 0, len(order))
	for _, name := range order {
		categories = append(categories, *byCategory[name])
	}
	return &WarehouseValuation{
		WarehouseID: warehouseID,
		Categories:  categories,
		Items:       items,
		TotalValue:  valuation.RoundMoney(total),
	}, nil
}

// CostHistoryEntry registro del libro anotado con el CPP previo y el costo total del evento.
type CostHistoryEntry struct {
	Movement          *entity.Movement
	AverageCostBefore decimal.Decimal
	TotalCost         decimal.Decimal
}

// GetCostHistory devuelve el histórico del artículo, más reciente primero.
// La cadena AverageCostBefore se arma en orden cronológico: el "antes" de cada
// registro es el "después" del anterior (0 para el primero). TotalCost usa el
// costo unitario en entradas y el CPP previo en salidas (de ahí salió el costo
// de la salida, incluso cuando el registro deja el promedio en 0 al vaciar).
func (uc *ValuationUseCase) GetCostHistory(ctx context.Context, companyID, itemID string, from, to *time.Time) ([]CostHistoryEntry, error) {
	item, err := uc.itemRepo.GetByID(companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	movements, err := uc.movRepo.ListByItem(companyID, itemID, from, to)
	if err != nil {
		return nil, err
	}

	history := make([]CostHistoryEntry, len(movements))
	before := decimal.Zero
	for i, mov := range movements {
		totalCost := mov.Quantity.Mul(before)
		if mov.UnitCost != nil {
			totalCost = mov.Quantity.Mul(*mov.UnitCost)
		}
		history[i] = CostHistoryEntry{
			Movement:          mov,
			AverageCostBefore: before,
			TotalCost:         valuation.RoundMoney(totalCost),
		}
		before = mov.AverageCostAfter
	}

	// Re-presentar del más reciente al más antiguo
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// ListRecalculations devuelve la bitácora de replays correctivos de un artículo
// (quién los ejecutó, estado antes/después, registros reescritos), más reciente primero.
func (uc *ValuationUseCase) ListRecalculations(ctx context.Context, companyID, itemID string, limit, offset int) ([]*entity.Recalculation, error) {
	item, err := uc.itemRepo.GetByID(companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return uc.recalcRepo.ListByItem(companyID, itemID, limit, offset)
}
