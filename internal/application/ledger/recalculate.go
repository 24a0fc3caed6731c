package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/jhoicas/cpp-ledger/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// RecalculateResult valoración resultante del replay completo.
type RecalculateResult struct {
	ItemID           string
	Quantity         decimal.Decimal
	AverageCost      decimal.Decimal
	TotalValue       decimal.Decimal
	EntriesReplayed  int
	EntriesRewritten int
}

// Recalculate reproduce el libro completo de un artículo desde (0, 0) en orden
// cronológico, bajo el mismo bloqueo de fila que las mutaciones normales:
// entradas aplican el CPP, salidas restan (reset a 0 al vaciar), traslados son
// neutros. Reescribe el AverageCostAfter de cada registro que difiera del valor
// recalculado (la única excepción a la inmutabilidad del libro), corrige el
// agregado y deja una fila de bitácora con quién lo ejecutó. Es idempotente:
// una segunda corrida sin escrituras intermedias no cambia nada.
func (e *Engine) Recalculate(ctx context.Context, companyID, itemID, performedBy string) (*RecalculateResult, error) {
	var result *RecalculateResult
	err := e.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		recalcRepo repository.RecalculationRepository,
	) error {
		item, err := itemRepo.GetForUpdate(companyID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		movements, err := movRepo.ListByItem(companyID, itemID, nil, nil)
		if err != nil {
			return err
		}

		state := valuation.Zero()
		rewritten := 0
		for _, mov := range movements {
			state = state.ApplyMovement(mov)
			if !mov.AverageCostAfter.Equal(state.AverageCost) {
				if err := movRepo.UpdateAverageCostAfter(mov.ID, state.AverageCost); err != nil {
					return err
				}
				rewritten++
			}
		}

		if err := itemRepo.UpdateValuation(companyID, itemID, state.Quantity, state.AverageCost); err != nil {
			return err
		}
		audit := &entity.Recalculation{
			ID:               uuid.New().String(),
			CompanyID:        companyID,
			ItemID:           itemID,
			PreviousQuantity: item.QuantityOnHand,
			PreviousCost:     item.AverageUnitCost,
			NewQuantity:      state.Quantity,
			NewCost:          state.AverageCost,
			EntriesRewritten: rewritten,
			PerformedBy:      performedBy,
			CreatedAt:        time.Now(),
		}
		if err := recalcRepo.Create(audit); err != nil {
			return err
		}
		result = &RecalculateResult{
			ItemID:           itemID,
			Quantity:         state.Quantity,
			AverageCost:      state.AverageCost,
			TotalValue:       valuation.RoundMoney(state.Quantity.Mul(state.AverageCost)),
			EntriesReplayed:  len(movements),
			EntriesRewritten: rewritten,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Warn().
		Str("company_id", companyID).
		Str("item_id", itemID).
		Str("performed_by", performedBy).
		Int("entries_replayed", result.EntriesReplayed).
		Int("entries_rewritten", result.EntriesRewritten).
		Str("quantity", result.Quantity.String()).
		Str("average_cost", result.AverageCost.String()).
		Msg("replay correctivo ejecutado sobre el libro")
	return result, nil
}
