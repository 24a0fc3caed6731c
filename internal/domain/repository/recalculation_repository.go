package repository

import "github.com/jhoicas/cpp-ledger/internal/domain/entity"

// RecalculationRepository persiste la bitácora de replays correctivos (quién/cuándo).
type RecalculationRepository interface {
	Create(rec *entity.Recalculation) error
	ListByItem(companyID, itemID string, limit, offset int) ([]*entity.Recalculation, error)
}
