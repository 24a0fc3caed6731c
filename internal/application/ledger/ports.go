package ledger

import (
	"context"

	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad: el agregado y el registro del libro se
// escriben juntos o ninguno (Commit/Rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		recalcRepo repository.RecalculationRepository,
	) error) error
}
