package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, item_id, kind, quantity, unit_cost, average_cost_after,
	from_warehouse_id, from_location_id, to_warehouse_id, to_location_id,
	reference_type, reference_id, reason, performed_by, created_at`

// Create agrega un registro al libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	performedBy := (*string)(nil)
	if movement.PerformedBy != "" {
		performedBy = &movement.PerformedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ItemID, string(movement.Kind),
		movement.Quantity, movement.UnitCost, movement.AverageCostAfter,
		nullIfEmpty(movement.FromWarehouseID), nullIfEmpty(movement.FromLocationID),
		nullIfEmpty(movement.ToWarehouseID), nullIfEmpty(movement.ToLocationID),
		nullIfEmpty(movement.ReferenceType), nullIfEmpty(movement.ReferenceID),
		nullIfEmpty(movement.Reason), performedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByItem lista los movimientos de un artículo en orden cronológico ascendente.
// El orden es seq (secuencia monótona de inserción): las escrituras de un mismo
// artículo están serializadas por el bloqueo de fila, así que seq coincide con
// el orden de commit aunque dos movimientos compartan timestamp.
func (r *MovementRepo) ListByItem(companyID, itemID string, from, to *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1 AND item_id = $2`
	args := []any{companyID, itemID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY seq ASC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind string
		var unitCost *decimal.Decimal
		var fromWh, fromLoc, toWh, toLoc, refType, refID, reason, performedBy *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ItemID, &kind, &m.Quantity, &unitCost,
			&m.AverageCostAfter, &fromWh, &fromLoc, &toWh, &toLoc,
			&refType, &refID, &reason, &performedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		m.UnitCost = unitCost
		m.FromWarehouseID = deref(fromWh)
		m.FromLocationID = deref(fromLoc)
		m.ToWarehouseID = deref(toWh)
		m.ToLocationID = deref(toLoc)
		m.ReferenceType = deref(refType)
		m.ReferenceID = deref(refID)
		m.Reason = deref(reason)
		m.PerformedBy = deref(performedBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// UpdateAverageCostAfter reescribe el CPP histórico de un registro.
// Solo lo invoca el replay correctivo.
func (r *MovementRepo) UpdateAverageCostAfter(movementID string, averageCostAfter decimal.Decimal) error {
	query := `UPDATE movements SET average_cost_after = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, movementID, averageCostAfter)
	if err != nil {
		return fmt.Errorf("update average cost after: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
