package ledger_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/cpp-ledger/internal/application/ledger"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/jhoicas/cpp-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria: el mutex del runner simula el bloqueo de fila de la BD
// (a lo sumo un mutador concurrente) y el snapshot simula el Rollback (si fn
// falla, el estado queda exactamente como antes de la transacción).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	items     map[string]*entity.Item // clave companyID|itemID
	movements []*entity.Movement
	recalcs   []*entity.Recalculation
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*entity.Item)}
}

func key(companyID, itemID string) string { return companyID + "|" + itemID }

func (s *memStore) addItem(companyID, itemID, category string, qty, cost decimal.Decimal) {
	s.items[key(companyID, itemID)] = &entity.Item{
		ID: itemID, CompanyID: companyID, SKU: "SKU-" + itemID, Name: "Artículo " + itemID,
		Category: category, QuantityOnHand: qty, AverageUnitCost: cost, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, it := range s.items {
		clone := *it
		cp.items[k] = &clone
	}
	for _, m := range s.movements {
		clone := *m
		cp.movements = append(cp.movements, &clone)
	}
	for _, r := range s.recalcs {
		clone := *r
		cp.recalcs = append(cp.recalcs, &clone)
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.items = snap.items
	s.movements = snap.movements
	s.recalcs = snap.recalcs
}

// memItemRepo implementa repository.ItemRepository sobre el store.
type memItemRepo struct{ s *memStore }

func (r *memItemRepo) Create(item *entity.Item) error {
	clone := *item
	r.s.items[key(item.CompanyID, item.ID)] = &clone
	return nil
}

func (r *memItemRepo) GetByID(companyID, itemID string) (*entity.Item, error) {
	it, ok := r.s.items[key(companyID, itemID)]
	if !ok {
		return nil, nil
	}
	clone := *it
	return &clone, nil
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da el mutex del runner.
func (r *memItemRepo) GetForUpdate(companyID, itemID string) (*entity.Item, error) {
	return r.GetByID(companyID, itemID)
}

func (r *memItemRepo) UpdateValuation(companyID, itemID string, quantity, averageCost decimal.Decimal) error {
	it := r.s.items[key(companyID, itemID)]
	it.QuantityOnHand = quantity
	it.AverageUnitCost = averageCost
	it.UpdatedAt = time.Now()
	return nil
}

func (r *memItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	var list []*entity.Item
	for _, it := range r.s.items {
		if it.CompanyID == companyID {
			clone := *it
			list = append(list, &clone)
		}
	}
	return list, nil
}

// memMovementRepo implementa repository.MovementRepository sobre el store.
// El orden de inserción es el orden cronológico (los tests no retroceden el reloj).
type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(movement *entity.Movement) error {
	clone := *movement
	r.s.movements = append(r.s.movements, &clone)
	return nil
}

func (r *memMovementRepo) ListByItem(companyID, itemID string, from, to *time.Time) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.s.movements {
		if m.CompanyID != companyID || m.ItemID != itemID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		clone := *m
		list = append(list, &clone)
	}
	return list, nil
}

func (r *memMovementRepo) UpdateAverageCostAfter(movementID string, averageCostAfter decimal.Decimal) error {
	for _, m := range r.s.movements {
		if m.ID == movementID {
			m.AverageCostAfter = averageCostAfter
		}
	}
	return nil
}

// memRecalcRepo implementa repository.RecalculationRepository sobre el store.
type memRecalcRepo struct{ s *memStore }

func (r *memRecalcRepo) Create(rec *entity.Recalculation) error {
	clone := *rec
	r.s.recalcs = append(r.s.recalcs, &clone)
	return nil
}

func (r *memRecalcRepo) ListByItem(companyID, itemID string, limit, offset int) ([]*entity.Recalculation, error) {
	var list []*entity.Recalculation
	for _, rec := range r.s.recalcs {
		if rec.CompanyID == companyID && rec.ItemID == itemID {
			clone := *rec
			list = append(list, &clone)
		}
	}
	return list, nil
}

// memTxRunner serializa transacciones con un mutex y restaura el snapshot si fn falla.
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	recalcRepo repository.RecalculationRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snap := t.s.snapshot()
	err := fn(&memItemRepo{t.s}, &memMovementRepo{t.s}, &memRecalcRepo{t.s})
	if err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

func newTestEngine(s *memStore) *ledger.Engine {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return ledger.NewEngine(&memTxRunner{s}, log)
}
