package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
)

var _ repository.RecalculationRepository = (*RecalculationRepo)(nil)

// RecalculationRepo bitácora de replays correctivos sobre PostgreSQL.
type RecalculationRepo struct {
	q Querier
}

// NewRecalculationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecalculationRepository(q Querier) *RecalculationRepo {
	return &RecalculationRepo{q: q}
}

// Create persiste una fila de bitácora por invocación del replay.
func (r *RecalculationRepo) Create(rec *entity.Recalculation) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO valuation_recalculations
			(id, company_id, item_id, previous_quantity, previous_cost, new_quantity, new_cost, entries_rewritten, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	performedBy := (*string)(nil)
	if rec.PerformedBy != "" {
		performedBy = &rec.PerformedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.CompanyID, rec.ItemID,
		rec.PreviousQuantity, rec.PreviousCost, rec.NewQuantity, rec.NewCost,
		rec.EntriesRewritten, performedBy, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create recalculation audit: %w", err)
	}
	return nil
}

// ListByItem lista la bitácora de un artículo, más reciente primero.
func (r *RecalculationRepo) ListByItem(companyID, itemID string, limit, offset int) ([]*entity.Recalculation, error) {
	query := `
		SELECT id, company_id, item_id, previous_quantity, previous_cost, new_quantity, new_cost, entries_rewritten, performed_by, created_at
		FROM valuation_recalculations
		WHERE company_id = $1 AND item_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, itemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recalculations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recalculation
	for rows.Next() {
		var rec entity.Recalculation
		var performedBy *string
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &rec.ItemID,
			&rec.PreviousQuantity, &rec.PreviousCost, &rec.NewQuantity, &rec.NewCost,
			&rec.EntriesRewritten, &performedBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recalculation: %w", err)
		}
		rec.PerformedBy = deref(performedBy)
		list = append(list, &rec)
	}
	return list, rows.Err()
}
