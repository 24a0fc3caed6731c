package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/cpp-ledger/internal/application/query"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/jhoicas/cpp-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID = "11111111-1111-1111-1111-111111111111"
	itemID    = "22222222-2222-2222-2222-222222222222"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func (r *fakeItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(_, id string) (*entity.Item, error) {
	return r.items[id], nil
}
func (r *fakeItemRepo) GetForUpdate(companyID, id string) (*entity.Item, error) {
	return r.GetByID(companyID, id)
}
func (r *fakeItemRepo) UpdateValuation(_, _ string, _, _ decimal.Decimal) error { return nil }
func (r *fakeItemRepo) ListByCompany(string, int, int) ([]*entity.Item, error) { return nil, nil }

type fakeMovementRepo struct {
	movements []*entity.Movement
	lastFrom  *time.Time
	lastTo    *time.Time
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *fakeMovementRepo) ListByItem(_, id string, from, to *time.Time) ([]*entity.Movement, error) {
	r.lastFrom, r.lastTo = from, to
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.ItemID != id {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
func (r *fakeMovementRepo) UpdateAverageCostAfter(string, decimal.Decimal) error { return nil }

type fakeValuationRepo struct {
	categories []repository.CategoryValuation
	items      []repository.WarehouseItemValuation
}

func (r *fakeValuationRepo) GetCompanyValuation(string) ([]repository.CategoryValuation, error) {
	return r.categories, nil
}
func (r *fakeValuationRepo) GetWarehouseItems(string, string) ([]repository.WarehouseItemValuation, error) {
	return r.items, nil
}

type fakeRecalcRepo struct {
	recs []*entity.Recalculation
}

func (r *fakeRecalcRepo) Create(rec *entity.Recalculation) error {
	r.recs = append(r.recs, rec)
	return nil
}
func (r *fakeRecalcRepo) ListByItem(_, itemID string, limit, offset int) ([]*entity.Recalculation, error) {
	var out []*entity.Recalculation
	for i := len(r.recs) - 1; i >= 0; i-- {
		if r.recs[i].ItemID == itemID {
			out = append(out, r.recs[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func newUseCase() (*query.ValuationUseCase, *fakeItemRepo, *fakeMovementRepo, *fakeValuationRepo) {
	items := &fakeItemRepo{items: make(map[string]*entity.Item)}
	movs := &fakeMovementRepo{}
	vals := &fakeValuationRepo{}
	return query.NewValuationUseCase(items, movs, vals, &fakeRecalcRepo{}), items, movs, vals
}

func TestGetItemValuation(t *testing.T) {
	uc, items, _, _ := newUseCase()
	items.items[itemID] = &entity.Item{
		ID:              itemID,
		CompanyID:       companyID,
		SKU:             "SKU-001",
		Name:            "Tornillo 3/8",
		Category:        "ferretería",
		QuantityOnHand:  d("9"),
		AverageUnitCost: d("1100"),
	}

	got, err := uc.GetItemValuation(context.Background(), companyID, itemID)
	require.NoError(t, err)
	assert.Equal(t, "9", got.Quantity.String())
	assert.Equal(t, "1100", got.AverageCost.String())
	assert.Equal(t, "9900", got.TotalValue.String())

	_, err = uc.GetItemValuation(context.Background(), companyID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetWarehouseValuation_Global(t *testing.T) {
	uc, _, _, vals := newUseCase()
	vals.categories = []repository.CategoryValuation{
		{Category: "ferretería", ItemCount: 2, Quantity: d("30"), Value: d("45000.50")},
		{Category: "Sin categoría", ItemCount: 1, Quantity: d("4"), Value: d("1200")},
	}

	got, err := uc.GetWarehouseValuation(context.Background(), companyID, "")
	require.NoError(t, err)
	assert.Empty(t, got.WarehouseID)
	assert.Nil(t, got.Items)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "46200.5", got.TotalValue.String())
}

// La forma por bodega agrega por categoría preservando el orden de primera
// aparición de cada una y conserva el detalle por artículo.
func TestGetWarehouseValuation_PorBodega(t *testing.T) {
	uc, _, _, vals := newUseCase()
	vals.items = []repository.WarehouseItemValuation{
		{ItemID: "a", SKU: "SKU-A", Category: "ferretería", Quantity: d("10"), AverageCost: d("100"), Value: d("1000")},
		{ItemID: "b", SKU: "SKU-B", Category: "pinturas", Quantity: d("2"), AverageCost: d("500"), Value: d("1000")},
		{ItemID: "c", SKU: "SKU-C", Category: "ferretería", Quantity: d("5"), AverageCost: d("40"), Value: d("200")},
	}

	got, err := uc.GetWarehouseValuation(context.Background(), companyID, "bodega-1")
	require.NoError(t, err)
	assert.Equal(t, "bodega-1", got.WarehouseID)
	assert.Len(t, got.Items, 3)
	require.Len(t, got.Categories, 2)

	assert.Equal(t, "ferretería", got.Categories[0].Category)
	assert.Equal(t, 2, got.Categories[0].ItemCount)
	assert.Equal(t, "15", got.Categories[0].Quantity.String())
	assert.Equal(t, "1200", got.Categories[0].Value.String())

	assert.Equal(t, "pinturas", got.Categories[1].Category)
	assert.Equal(t, 1, got.Categories[1].ItemCount)

	assert.Equal(t, "2200", got.TotalValue.String())
}

func TestGetCostHistory_CadenaYOrden(t *testing.T) {
	uc, items, movs, _ := newUseCase()
	items.items[itemID] = &entity.Item{ID: itemID, CompanyID: companyID, SKU: "SKU-001"}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cost1000, cost1300 := d("1000"), d("1300")
	movs.movements = []*entity.Movement{
		{ID: "m1", ItemID: itemID, Kind: entity.KindPurchase, Quantity: d("10"), UnitCost: &cost1000, AverageCostAfter: d("1000"), CreatedAt: base},
		{ID: "m2", ItemID: itemID, Kind: entity.KindPurchase, Quantity: d("5"), UnitCost: &cost1300, AverageCostAfter: d("1100"), CreatedAt: base.Add(time.Hour)},
		{ID: "m3", ItemID: itemID, Kind: entity.KindDispatch, Quantity: d("6"), AverageCostAfter: d("1100"), CreatedAt: base.Add(2 * time.Hour)},
		{ID: "m4", ItemID: itemID, Kind: entity.KindSale, Quantity: d("9"), AverageCostAfter: d("0"), CreatedAt: base.Add(3 * time.Hour)},
	}

	history, err := uc.GetCostHistory(context.Background(), companyID, itemID, nil, nil)
	require.NoError(t, err)
	require.Len(t, history, 4)

	// Más reciente primero
	assert.Equal(t, "m4", history[0].Movement.ID)
	assert.Equal(t, "m1", history[3].Movement.ID)

	// La cadena: el "antes" de cada registro es el "después" del anterior
	assert.Equal(t, "0", history[3].AverageCostBefore.String())
	assert.Equal(t, "1000", history[2].AverageCostBefore.String())
	assert.Equal(t, "1100", history[1].AverageCostBefore.String())
	assert.Equal(t, "1100", history[0].AverageCostBefore.String())

	// Entradas valoradas al costo unitario, salidas al CPP previo — incluso la
	// salida que vació la posición y dejó el promedio en 0
	assert.Equal(t, "10000", history[3].TotalCost.String())
	assert.Equal(t, "6500", history[2].TotalCost.String())
	assert.Equal(t, "6600", history[1].TotalCost.String())
	assert.Equal(t, "9900", history[0].TotalCost.String())
}

func TestGetCostHistory_FiltroDeFechas(t *testing.T) {
	uc, items, movs, _ := newUseCase()
	items.items[itemID] = &entity.Item{ID: itemID, CompanyID: companyID}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cost := d("100")
	movs.movements = []*entity.Movement{
		{ID: "m1", ItemID: itemID, Kind: entity.KindPurchase, Quantity: d("1"), UnitCost: &cost, AverageCostAfter: d("100"), CreatedAt: base},
		{ID: "m2", ItemID: itemID, Kind: entity.KindPurchase, Quantity: d("1"), UnitCost: &cost, AverageCostAfter: d("100"), CreatedAt: base.AddDate(0, 0, 5)},
	}

	from := base.AddDate(0, 0, 1)
	history, err := uc.GetCostHistory(context.Background(), companyID, itemID, &from, nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "m2", history[0].Movement.ID)
	require.NotNil(t, movs.lastFrom)
	assert.True(t, movs.lastFrom.Equal(from))
}

func TestGetCostHistory_ArticuloInexistente(t *testing.T) {
	uc, _, _, _ := newUseCase()
	_, err := uc.GetCostHistory(context.Background(), companyID, itemID, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListRecalculations(t *testing.T) {
	items := &fakeItemRepo{items: make(map[string]*entity.Item)}
	items.items[itemID] = &entity.Item{ID: itemID, CompanyID: companyID}
	recalcs := &fakeRecalcRepo{recs: []*entity.Recalculation{
		{ID: "r1", ItemID: itemID, NewQuantity: d("15"), NewCost: d("1100"), EntriesRewritten: 1, PerformedBy: "u1"},
		{ID: "r2", ItemID: itemID, NewQuantity: d("15"), NewCost: d("1100"), PerformedBy: "u2"},
		{ID: "r3", ItemID: "otro", NewQuantity: d("3"), NewCost: d("7")},
	}}
	uc := query.NewValuationUseCase(items, &fakeMovementRepo{}, &fakeValuationRepo{}, recalcs)

	got, err := uc.ListRecalculations(context.Background(), companyID, itemID, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r2", got[0].ID, "más reciente primero")
	assert.Equal(t, "r1", got[1].ID)

	_, err = uc.ListRecalculations(context.Background(), companyID, "no-existe", 20, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
