package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/jhoicas/cpp-ledger/internal/domain/valuation"
	"github.com/jhoicas/cpp-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// Engine es el motor de valoración CPP: registra entradas, salidas, ajustes y
// traslados de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE)
// sobre el artículo y Commit/Rollback de agregado + libro como unidad.
type Engine struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, log *logger.Logger) *Engine {
	return &Engine{txRunner: txRunner, log: log}
}

// EntryInput entrada para ProcessEntry. Kind debe ser un tipo de entrada;
// si viene vacío se asume PURCHASE.
type EntryInput struct {
	CompanyID string
	ItemID    string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Kind      entity.MovementKind
	Ref       entity.MovementReference
}

// EntryResult cifras calculadas por una entrada.
type EntryResult struct {
	MovementID     string
	NewAverageCost decimal.Decimal
	NewQuantity    decimal.Decimal
	NewTotalValue  decimal.Decimal
}

// ExitInput entrada para ProcessExit. Kind debe ser un tipo de salida;
// si viene vacío se asume DISPATCH. El costo es siempre el CPP vigente.
type ExitInput struct {
	CompanyID string
	ItemID    string
	Quantity  decimal.Decimal
	Kind      entity.MovementKind
	Ref       entity.MovementReference
}

// ExitResult cifras calculadas por una salida.
type ExitResult struct {
	MovementID        string
	CostOfExit        decimal.Decimal
	AverageCost       decimal.Decimal
	RemainingQuantity decimal.Decimal
	RemainingValue    decimal.Decimal
}

// AdjustmentInput entrada para ProcessAdjustment. QuantityDelta con signo;
// UnitCost opcional y solo significativo para deltas positivos.
type AdjustmentInput struct {
	CompanyID     string
	ItemID        string
	QuantityDelta decimal.Decimal
	UnitCost      *decimal.Decimal
	Ref           entity.MovementReference
}

// AdjustmentResult envuelve el resultado según la dirección del ajuste.
type AdjustmentResult struct {
	Kind  entity.MovementKind
	Entry *EntryResult
	Exit  *ExitResult
}

// TransferInput entrada para ProcessTransfer: mueve cantidad entre bodegas sin
// alterar el total ni el costo del artículo.
type TransferInput struct {
	CompanyID string
	ItemID    string
	Quantity  decimal.Decimal
	Ref       entity.MovementReference // FromWarehouseID y ToWarehouseID obligatorios
}

// TransferResult resultado de un traslado.
type TransferResult struct {
	MovementID  string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
}

// ProcessEntry registra una entrada: bloquea la fila del artículo, aplica el CPP
// (si el stock actual es <= 0 el nuevo costo es el de la entrada), redondea a 4
// decimales, actualiza el agregado y agrega el movimiento en la misma transacción.
func (e *Engine) ProcessEntry(ctx context.Context, input EntryInput) (*EntryResult, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.KindPurchase
	}
	if !kind.IsEntry() {
		return nil, domain.ErrInvalidInput
	}

	var result *EntryResult
	err := e.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		_ repository.RecalculationRepository,
	) error {
		item, err := itemRepo.GetForUpdate(input.CompanyID, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		state := valuation.State{Quantity: item.QuantityOnHand, AverageCost: item.AverageUnitCost}
		next := state.ApplyEntry(input.Quantity, input.UnitCost)

		if err := itemRepo.UpdateValuation(input.CompanyID, input.ItemID, next.Quantity, next.AverageCost); err != nil {
			return err
		}
		unitCost := input.UnitCost
		mov := e.newMovement(input.CompanyID, input.ItemID, kind, input.Quantity, &unitCost, next.AverageCost, input.Ref)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result = &EntryResult{
			MovementID:     mov.ID,
			NewAverageCost: next.AverageCost,
			NewQuantity:    next.Quantity,
			NewTotalValue:  valuation.RoundMoney(next.Quantity.Mul(next.AverageCost)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("company_id", input.CompanyID).
		Str("item_id", input.ItemID).
		Str("kind", string(kind)).
		Str("movement_id", result.MovementID).
		Str("quantity", input.Quantity.String()).
		Str("new_average_cost", result.NewAverageCost.String()).
		Msg("entrada registrada")
	return result, nil
}

// ProcessExit registra una salida al CPP vigente: valida disponibilidad bajo el
// bloqueo de fila (InsufficientStockError con disponible/solicitado si no alcanza),
// resta cantidad y conserva el promedio, salvo que la posición quede en 0 (reset a 0).
func (e *Engine) ProcessExit(ctx context.Context, input ExitInput) (*ExitResult, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	kind := input.Kind
	if kind == "" {
		kind = entity.KindDispatch
	}
	if !kind.IsExit() {
		return nil, domain.ErrInvalidInput
	}

	var result *ExitResult
	err := e.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		_ repository.RecalculationRepository,
	) error {
		item, err := itemRepo.GetForUpdate(input.CompanyID, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.QuantityOnHand.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{
				Available: item.QuantityOnHand,
				Requested: input.Quantity,
			}
		}

		costOfExit := valuation.RoundMoney(input.Quantity.Mul(item.AverageUnitCost))
		state := valuation.State{Quantity: item.QuantityOnHand, AverageCost: item.AverageUnitCost}
		next := state.ApplyExit(input.Quantity)

		if err := itemRepo.UpdateValuation(input.CompanyID, input.ItemID, next.Quantity, next.AverageCost); err != nil {
			return err
		}
		mov := e.newMovement(input.CompanyID, input.ItemID, kind, input.Quantity, nil, next.AverageCost, input.Ref)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result = &ExitResult{
			MovementID:        mov.ID,
			CostOfExit:        costOfExit,
			AverageCost:       next.AverageCost,
			RemainingQuantity: next.Quantity,
			RemainingValue:    valuation.RoundMoney(next.Quantity.Mul(next.AverageCost)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("company_id", input.CompanyID).
		Str("item_id", input.ItemID).
		Str("kind", string(kind)).
		Str("movement_id", result.MovementID).
		Str("quantity", input.Quantity.String()).
		Str("cost_of_exit", result.CostOfExit.String()).
		Msg("salida registrada")
	return result, nil
}

// ProcessAdjustment delega: delta positivo como entrada ADJUSTMENT_IN (costo 0 si
// no se indica: los ajustes positivos sin fuente entran sin costo) y delta
// negativo como salida ADJUSTMENT_OUT por el valor absoluto, al CPP vigente.
func (e *Engine) ProcessAdjustment(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if input.QuantityDelta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.QuantityDelta.GreaterThan(decimal.Zero) {
		unitCost := decimal.Zero
		if input.UnitCost != nil {
			unitCost = *input.UnitCost
		}
		res, err := e.ProcessEntry(ctx, EntryInput{
			CompanyID: input.CompanyID,
			ItemID:    input.ItemID,
			Quantity:  input.QuantityDelta,
			UnitCost:  unitCost,
			Kind:      entity.KindAdjustmentIn,
			Ref:       input.Ref,
		})
		if err != nil {
			return nil, err
		}
		return &AdjustmentResult{Kind: entity.KindAdjustmentIn, Entry: res}, nil
	}
	res, err := e.ProcessExit(ctx, ExitInput{
		CompanyID: input.CompanyID,
		ItemID:    input.ItemID,
		Quantity:  input.QuantityDelta.Neg(),
		Kind:      entity.KindAdjustmentOut,
		Ref:       input.Ref,
	})
	if err != nil {
		return nil, err
	}
	return &AdjustmentResult{Kind: entity.KindAdjustmentOut, Exit: res}, nil
}

// ProcessTransfer registra un traslado entre bodegas: un solo registro TRANSFER
// con bodega origen y destino; no cambia cantidad total ni CPP del artículo.
func (e *Engine) ProcessTransfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Ref.FromWarehouseID == "" || input.Ref.ToWarehouseID == "" ||
		input.Ref.FromWarehouseID == input.Ref.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}

	var result *TransferResult
	err := e.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		_ repository.RecalculationRepository,
	) error {
		item, err := itemRepo.GetForUpdate(input.CompanyID, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if item.QuantityOnHand.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{
				Available: item.QuantityOnHand,
				Requested: input.Quantity,
			}
		}
		mov := e.newMovement(input.CompanyID, input.ItemID, entity.KindTransfer, input.Quantity, nil, item.AverageUnitCost, input.Ref)
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result = &TransferResult{
			MovementID:  mov.ID,
			Quantity:    input.Quantity,
			AverageCost: item.AverageUnitCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("company_id", input.CompanyID).
		Str("item_id", input.ItemID).
		Str("movement_id", result.MovementID).
		Str("from_warehouse", input.Ref.FromWarehouseID).
		Str("to_warehouse", input.Ref.ToWarehouseID).
		Msg("traslado registrado")
	return result, nil
}

// newMovement arma un registro del libro con identidad y timestamp propios.
func (e *Engine) newMovement(
	companyID, itemID string,
	kind entity.MovementKind,
	quantity decimal.Decimal,
	unitCost *decimal.Decimal,
	averageCostAfter decimal.Decimal,
	ref entity.MovementReference,
) *entity.Movement {
	return &entity.Movement{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		ItemID:           itemID,
		Kind:             kind,
		Quantity:         quantity,
		UnitCost:         unitCost,
		AverageCostAfter: averageCostAfter,
		FromWarehouseID:  ref.FromWarehouseID,
		FromLocationID:   ref.FromLocationID,
		ToWarehouseID:    ref.ToWarehouseID,
		ToLocationID:     ref.ToLocationID,
		ReferenceType:    ref.ReferenceType,
		ReferenceID:      ref.ReferenceID,
		Reason:           ref.Reason,
		PerformedBy:      ref.PerformedBy,
		CreatedAt:        time.Now(),
	}
}
