package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema DDL idempotente de las tablas del motor de valoración.
// CHECK de no-negatividad en el agregado: la invariante también se defiende en BD.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id                TEXT PRIMARY KEY,
    company_id        TEXT NOT NULL,
    sku               TEXT NOT NULL,
    name              TEXT NOT NULL,
    category          TEXT NOT NULL DEFAULT '',
    quantity_on_hand  NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (quantity_on_hand >= 0),
    average_unit_cost NUMERIC(20,4) NOT NULL DEFAULT 0 CHECK (average_unit_cost >= 0),
    is_active         BOOLEAN NOT NULL DEFAULT TRUE,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_company_sku ON items (company_id, sku);
CREATE INDEX IF NOT EXISTS idx_items_company_category ON items (company_id, category);

CREATE TABLE IF NOT EXISTS movements (
    id                 TEXT PRIMARY KEY,
    seq                BIGSERIAL NOT NULL UNIQUE,
    company_id         TEXT NOT NULL,
    item_id            TEXT NOT NULL REFERENCES items (id),
    kind               TEXT NOT NULL,
    quantity           NUMERIC(20,4) NOT NULL CHECK (quantity > 0),
    unit_cost          NUMERIC(20,4),
    average_cost_after NUMERIC(20,4) NOT NULL DEFAULT 0,
    from_warehouse_id  TEXT,
    from_location_id   TEXT,
    to_warehouse_id    TEXT,
    to_location_id     TEXT,
    reference_type     TEXT,
    reference_id       TEXT,
    reason             TEXT,
    performed_by       TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_movements_company_item_seq ON movements (company_id, item_id, seq);
CREATE INDEX IF NOT EXISTS idx_movements_company_item_created ON movements (company_id, item_id, created_at);
CREATE INDEX IF NOT EXISTS idx_movements_from_warehouse ON movements (company_id, from_warehouse_id) WHERE from_warehouse_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_movements_to_warehouse ON movements (company_id, to_warehouse_id) WHERE to_warehouse_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS valuation_recalculations (
    id                TEXT PRIMARY KEY,
    company_id        TEXT NOT NULL,
    item_id           TEXT NOT NULL REFERENCES items (id),
    previous_quantity NUMERIC(20,4) NOT NULL,
    previous_cost     NUMERIC(20,4) NOT NULL,
    new_quantity      NUMERIC(20,4) NOT NULL,
    new_cost          NUMERIC(20,4) NOT NULL,
    entries_rewritten INT NOT NULL DEFAULT 0,
    performed_by      TEXT,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_recalculations_company_item ON valuation_recalculations (company_id, item_id, created_at);
`

// EnsureSchema crea las tablas e índices si no existen.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
