package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, category, quantity_on_hand, average_unit_cost, is_active, created_at, updated_at`

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, company_id, sku, name, category, quantity_on_hand, average_unit_cost, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Category,
		item.QuantityOnHand, item.AverageUnitCost, item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID dentro de la empresa.
func (r *ItemRepo) GetByID(companyID, itemID string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND id = $2`
	return r.scanOne(query, companyID, itemID)
}

// GetForUpdate obtiene el artículo y bloquea su fila durante la transacción
// (SELECT FOR UPDATE): a lo sumo un mutador concurrente por artículo.
func (r *ItemRepo) GetForUpdate(companyID, itemID string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(query, companyID, itemID)
}

// UpdateValuation escribe cantidad y costo promedio del agregado.
func (r *ItemRepo) UpdateValuation(companyID, itemID string, quantity, averageCost decimal.Decimal) error {
	query := `
		UPDATE items SET quantity_on_hand = $3, average_unit_cost = $4, updated_at = now()
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query, companyID, itemID, quantity, averageCost)
	if err != nil {
		return fmt.Errorf("update item valuation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista artículos de la empresa con paginación.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Category,
			&it.QuantityOnHand, &it.AverageUnitCost, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) scanOne(query string, args ...any) (*entity.Item, error) {
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Category,
		&it.QuantityOnHand, &it.AverageUnitCost, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}
