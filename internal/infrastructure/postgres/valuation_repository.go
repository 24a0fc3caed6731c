package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
)

var _ repository.ValuationRepository = (*ValuationRepo)(nil)

// ValuationRepo consultas de solo lectura para valoración agregada.
// Opera sobre el pool directamente: los lectores no toman bloqueos.
type ValuationRepo struct {
	pool *pgxpool.Pool
}

// NewValuationRepository construye el adaptador de valoración.
func NewValuationRepository(pool *pgxpool.Pool) *ValuationRepo {
	return &ValuationRepo{pool: pool}
}

// GetCompanyValuation agrupa artículos activos con cantidad positiva por categoría,
// sumando cantidad × CPP directamente desde el agregado (camino rápido: el
// agregado es la fuente de verdad para la valoración total de la empresa).
func (r *ValuationRepo) GetCompanyValuation(companyID string) ([]repository.CategoryValuation, error) {
	const query = `
	SELECT
	    COALESCE(NULLIF(category, ''), 'Sin categoría')          AS category,
	    COUNT(*)                                                 AS item_count,
	    SUM(quantity_on_hand)                                    AS quantity,
	    ROUND(SUM(quantity_on_hand * average_unit_cost), 2)      AS value
	FROM items
	WHERE company_id = $1
	  AND is_active
	  AND quantity_on_hand > 0
	GROUP BY 1
	ORDER BY value DESC`

	rows, err := r.pool.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("valuation.GetCompanyValuation: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryValuation
	for rows.Next() {
		var row repository.CategoryValuation
		if err := rows.Scan(&row.Category, &row.ItemCount, &row.Quantity, &row.Value); err != nil {
			return nil, fmt.Errorf("valuation.GetCompanyValuation scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetWarehouseItems reconstruye la cantidad por artículo dentro de una bodega
// reproduciendo el libro: +cantidad cuando la bodega es destino del movimiento,
// -cantidad cuando es origen (cubre entradas, salidas y traslados con una sola
// regla). El agregado no está particionado por bodega, así que la valoración usa
// el CPP global vigente del artículo. Excluye cantidades reconstruidas <= 0.
func (r *ValuationRepo) GetWarehouseItems(companyID, warehouseID string) ([]repository.WarehouseItemValuation, error) {
	const query = `
	SELECT
	    i.id,
	    i.sku,
	    i.name,
	    COALESCE(NULLIF(i.category, ''), 'Sin categoría')        AS category,
	    w.quantity,
	    i.average_unit_cost,
	    ROUND(w.quantity * i.average_unit_cost, 2)               AS value
	FROM (
	    SELECT
	        item_id,
	        SUM(CASE
	            WHEN to_warehouse_id = $2   THEN quantity
	            WHEN from_warehouse_id = $2 THEN -quantity
	            ELSE 0
	        END) AS quantity
	    FROM movements
	    WHERE company_id = $1
	      AND (to_warehouse_id = $2 OR from_warehouse_id = $2)
	    GROUP BY item_id
	) w
	JOIN items i ON i.id = w.item_id AND i.company_id = $1
	WHERE w.quantity > 0
	ORDER BY value DESC`

	rows, err := r.pool.Query(context.Background(), query, companyID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("valuation.GetWarehouseItems: %w", err)
	}
	defer rows.Close()

	var results []repository.WarehouseItemValuation
	for rows.Next() {
		var row repository.WarehouseItemValuation
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.Name, &row.Category,
			&row.Quantity, &row.AverageCost, &row.Value); err != nil {
			return nil, fmt.Errorf("valuation.GetWarehouseItems scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
