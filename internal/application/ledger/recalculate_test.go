package ledger_test

import (
	"context"
	"testing"

	"github.com/jhoicas/cpp-ledger/internal/application/ledger"
	"github.com/jhoicas/cpp-ledger/internal/domain"
	"github.com/jhoicas/cpp-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Determinismo del replay: recalcular sobre un libro generado en vivo produce
// exactamente el mismo agregado y no reescribe ningún registro.
func TestRecalculate_DeterminismoDelReplay(t *testing.T) {
	s := newMemStore()
	s.addItem(testCompanyID, testItemID, "general", decimal.Zero, decimal.Zero)
	engine := newTestEngine(s)
	ctx := context.Background()

	operations := []func() error{
		func() error {
			_, err := engine.ProcessEntry(ctx, ledger.EntryInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("10"), UnitCost: d("1000"), Ref: testRef()})
			return err
		},
		func() error {
			_, err := engine.ProcessEntry(ctx, ledger.EntryInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("5"), UnitCost: d("1300"), Ref: testRef()})
			return err
		},
		func() error {
			_, err := engine.ProcessExit(ctx, ledger.ExitInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("6"), Ref: testRef()})
			return err
		},
		func() error {
			_, err := engine.ProcessTransfer(ctx, ledger.TransferInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("3"), Ref: entity.MovementReference{FromWarehouseID: "b1", ToWarehouseID: "b2"}})
			return err
		},
		func() error {
			_, err := engine.ProcessAdjustment(ctx, ledger.AdjustmentInput{CompanyID: testCompanyID, ItemID: testItemID, QuantityDelta: d("-2")})
			return err
		},
	}
	for _, op := range operations {
		require.NoError(t, op())
	}

	liveItem := *s.items[key(testCompanyID, testItemID)]

	res, err := engine.Recalculate(ctx, testCompanyID, testItemID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, liveItem.QuantityOnHand.String(), res.Quantity.String())
	assert.Equal(t, liveItem.AverageUnitCost.String(), res.AverageCost.String())
	assert.Equal(t, 5, res.EntriesReplayed)
	assert.Equal(t, 0, res.EntriesRewritten, "un libro sano no necesita reescrituras")

	// Quedó bitácora de la invocación
	require.Len(t, s.recalcs, 1)
	assert.Equal(t, testUserID, s.recalcs[0].PerformedBy)
}

// El replay corrige un histórico adulterado y el agregado desfasado, y una
// segunda corrida inmediata no cambia nada (idempotencia).
func TestRecalculate_CorrigeYEsIdempotente(t *testing.T) {
	s := newMemStore()
	s.addItem(testCompanyID, testItemID, "general", decimal.Zero, decimal.Zero)
	engine := newTestEngine(s)
	ctx := context.Background()

	_, err := engine.ProcessEntry(ctx, ledger.EntryInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("10"), UnitCost: d("1000"), Ref: testRef()})
	require.NoError(t, err)
	_, err = engine.ProcessEntry(ctx, ledger.EntryInput{CompanyID: testCompanyID, ItemID: testItemID, Quantity: d("5"), UnitCost: d("1300"), Ref: testRef()})
	require.NoError(t, err)

	// Adulterar el histórico y desfasar el agregado (simula corrupción externa)
	s.movements[1].AverageCostAfter = d("9999")
	s.items[key(testCompanyID, testItemID)].AverageUnitCost = d("123")
	s.items[key(testCompanyID, testItemID)].QuantityOnHand = d("42")

	res, err := engine.Recalculate(ctx, testCompanyID, testItemID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "15", res.Quantity.String())
	assert.Equal(t, "1100", res.AverageCost.String())
	assert.Equal(t, "16500", res.TotalValue.String())
	assert.Equal(t, 1, res.EntriesRewritten)
	assert.Equal(t, "1100", s.movements[1].AverageCostAfter.String(), "histórico reescrito")

	// Segunda corrida sin escrituras intermedias: idéntica y sin reescrituras
	res2, err := engine.Recalculate(ctx, testCompanyID, testItemID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, res.Quantity.String(), res2.Quantity.String())
	assert.Equal(t, res.AverageCost.String(), res2.AverageCost.String())
	assert.Equal(t, 0, res2.EntriesRewritten)
}

// Un artículo creado con saldo inicial tiene ese saldo en el libro (ajuste
// positivo que escribe el catálogo); el replay correctivo lo reconstruye en vez
// de borrarlo.
func TestRecalculate_ConservaSaldoInicial(t *testing.T) {
	s := newMemStore()
	s.addItem(testCompanyID, testItemID, "general", d("5"), d("10"))
	initialCost := d("10")
	s.movements = append(s.movements, &entity.Movement{
		ID:               "apertura",
		CompanyID:        testCompanyID,
		ItemID:           testItemID,
		Kind:             entity.KindAdjustmentIn,
		Quantity:         d("5"),
		UnitCost:         &initialCost,
		AverageCostAfter: d("10"),
		Reason:           "saldo inicial",
	})
	engine := newTestEngine(s)

	res, err := engine.Recalculate(context.Background(), testCompanyID, testItemID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "5", res.Quantity.String())
	assert.Equal(t, "10", res.AverageCost.String())
	assert.Equal(t, 1, res.EntriesReplayed)
	assert.Equal(t, 0, res.EntriesRewritten)

	item := s.items[key(testCompanyID, testItemID)]
	assert.Equal(t, "5", item.QuantityOnHand.String())
	assert.Equal(t, "10", item.AverageUnitCost.String())
}

func TestRecalculate_ArticuloInexistente(t *testing.T) {
	s := newMemStore()
	engine := newTestEngine(s)

	_, err := engine.Recalculate(context.Background(), testCompanyID, "no-existe", testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.recalcs)
}
