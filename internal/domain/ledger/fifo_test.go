package ledger_test

import (
	"testing"
	"time"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func layer(seq int64, received time.Time, remaining, unitCost int64) *entity.InventoryLayer {
	return &entity.InventoryLayer{
		ID:           "layer-" + decimal.NewFromInt(seq).String(),
		Seq:          seq,
		ItemID:       "item-1",
		InitialQty:   d(remaining),
		RemainingQty: d(remaining),
		UnitCost:     d(unitCost),
		ReceivedAt:   received,
	}
}

// TestPlanDepletion_DosCapas reproduce el escenario de referencia: capas
// [5 @ 1.000.000 día 1] y [5 @ 1.500.000 día 2]; sacar 7 agota la capa del
// día 1 (5 unidades) y toma 2 del día 2. Costo total = 8.000.000.
func TestPlanDepletion_DosCapas(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	layers := []*entity.InventoryLayer{
		layer(2, day2, 5, 1_500_000), // desordenadas a propósito
		layer(1, day1, 5, 1_000_000),
	}

	plan, totalCost, err := ledger.PlanDepletion(layers, d(7))
	require.NoError(t, err)
	require.Len(t, plan, 2)

	assert.Equal(t, int64(1), plan[0].Layer.Seq, "la capa más antigua se agota primero")
	assert.True(t, plan[0].Quantity.Equal(d(5)))
	assert.True(t, plan[1].Quantity.Equal(d(2)))
	assert.True(t, totalCost.Equal(d(8_000_000)),
		"costo = 5×1.000.000 + 2×1.500.000")
}

// TestPlanDepletion_Insuficiente: capa [10 @ 1.000.000], sacar 12 falla con
// ErrInsufficientStock y sin plan parcial; la capa queda intacta.
func TestPlanDepletion_Insuficiente(t *testing.T) {
	l := layer(1, time.Now(), 10, 1_000_000)
	plan, totalCost, err := ledger.PlanDepletion([]*entity.InventoryLayer{l}, d(12))

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Nil(t, plan, "todo o nada: sin cumplimiento parcial")
	assert.True(t, totalCost.IsZero())
	assert.True(t, l.RemainingQty.Equal(d(10)), "PlanDepletion no muta capas")
}

// TestPlanDepletion_DesempatePorSeq: a igual fecha de recepción se agota
// primero la capa de menor orden de inserción (Seq ascendente).
func TestPlanDepletion_DesempatePorSeq(t *testing.T) {
	sameDay := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	layers := []*entity.InventoryLayer{
		layer(7, sameDay, 4, 200),
		layer(3, sameDay, 4, 100),
	}

	plan, totalCost, err := ledger.PlanDepletion(layers, d(5))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, int64(3), plan[0].Layer.Seq)
	assert.True(t, plan[0].Quantity.Equal(d(4)))
	assert.Equal(t, int64(7), plan[1].Layer.Seq)
	assert.True(t, plan[1].Quantity.Equal(d(1)))
	assert.True(t, totalCost.Equal(d(600)), "4×100 + 1×200")
}

// TestPlanDepletion_IgnoraCapasAgotadas verifica que las capas con
// IsDepleted o remaining 0 no participan aunque estén primero en FIFO.
func TestPlanDepletion_IgnoraCapasAgotadas(t *testing.T) {
	old := layer(1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 5, 50)
	old.RemainingQty = decimal.Zero
	old.IsDepleted = true
	fresh := layer(2, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 5, 80)

	plan, totalCost, err := ledger.PlanDepletion([]*entity.InventoryLayer{old, fresh}, d(3))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, int64(2), plan[0].Layer.Seq)
	assert.True(t, totalCost.Equal(d(240)))
}

func TestPlanDepletion_CantidadInvalida(t *testing.T) {
	_, _, err := ledger.PlanDepletion(nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = ledger.PlanDepletion(nil, d(-3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAverageCost_PonderadoPorRemanente(t *testing.T) {
	day := time.Now()
	layers := []*entity.InventoryLayer{
		layer(1, day, 5, 1_000_000),
		layer(2, day, 5, 1_500_000),
	}
	avg := ledger.AverageCost(layers)
	assert.True(t, avg.Equal(d(1_250_000)))

	assert.True(t, ledger.AverageCost(nil).IsZero(), "sin stock el promedio es cero")
}

func TestAvailable_SumaRemanentes(t *testing.T) {
	day := time.Now()
	depleted := layer(1, day, 0, 10)
	depleted.IsDepleted = true
	layers := []*entity.InventoryLayer{depleted, layer(2, day, 3, 10), layer(3, day, 4, 10)}
	assert.True(t, ledger.Available(layers).Equal(d(7)))
}
