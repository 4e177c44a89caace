package manufacturing_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/application/manufacturing"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID = "co-1"
	userID    = "user-1"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

type fixture struct {
	store *apptest.Store
	stock *inventory.StockLedgerUseCase
	uc    *manufacturing.ProductionRunUseCase
	wh    *entity.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	runner := &apptest.TxRunner{S: store}
	stock := inventory.NewStockLedgerUseCase(runner, store.ItemRepo(), store.WarehouseRepo())
	poster := accounting.NewPoster(runner, store.JournalRepo())
	uc := manufacturing.NewProductionRunUseCase(runner, store.RunRepo(), store.ItemRepo(),
		store.WarehouseRepo(), stock, poster)

	wh := &entity.Warehouse{ID: uuid.New().String(), CompanyID: companyID, Name: "Planta"}
	store.Warehouses[wh.ID] = wh
	return &fixture{store: store, stock: stock, uc: uc, wh: wh}
}

func (f *fixture) newItem(t *testing.T, itemType string, qty, cost int64) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SKU:             "SKU-" + uuid.New().String()[:8],
		Type:            itemType,
		ValuationMethod: entity.ValuationFIFO,
	}
	f.store.Items[item.ID] = item
	if qty > 0 {
		_, err := f.stock.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
			ItemID:      item.ID,
			WarehouseID: f.wh.ID,
			Quantity:    d(qty),
			UnitCost:    d(cost),
		})
		require.NoError(t, err)
	}
	return item
}

// TestCreate_CostoRealDeInsumos: producir 4 unidades consumiendo insumos por
// 2.000 + 1.000 crea la capa de salida a costo unitario 750 (3.000 / 4) y el
// asiento mueve exactamente 3.000 entre cuentas de inventario: cuadra por
// construcción.
func TestCreate_CostoRealDeInsumos(t *testing.T) {
	f := newFixture(t)
	harina := f.newItem(t, entity.ItemTypeRawMaterial, 20, 200) // 10 × 200 = 2.000
	azucar := f.newItem(t, entity.ItemTypeRawMaterial, 10, 100) // 10 × 100 = 1.000
	pan := f.newItem(t, entity.ItemTypeFinishedGood, 0, 0)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateProductionRunRequest{
		WarehouseID:  f.wh.ID,
		OutputItemID: pan.ID,
		OutputQty:    d(4),
		Inputs: []dto.ProductionInputRequest{
			{ItemID: harina.ID, Quantity: d(10)},
			{ItemID: azucar.ID, Quantity: d(10)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalCost.Equal(d(3_000)))
	assert.True(t, resp.UnitCost.Equal(d(750)), "costo unitario = 3.000 / 4")
	require.Len(t, resp.Inputs, 2)
	assert.True(t, resp.Inputs[0].TotalCost.Equal(d(2_000)), "costo FIFO real del insumo")
	assert.True(t, resp.Inputs[1].TotalCost.Equal(d(1_000)))

	assert.True(t, f.store.Items[pan.ID].QuantityOnHand.Equal(d(4)))
	assert.True(t, f.store.Items[harina.ID].QuantityOnHand.Equal(d(10)))
	assert.True(t, f.store.Items[azucar.ID].QuantityOnHand.IsZero())

	var entry *entity.JournalEntry
	for _, e := range f.store.Entries {
		if e.DocType == entity.DocTypeProductionRun && e.DocID == resp.ID {
			entry = e
		}
	}
	require.NotNil(t, entry)
	require.NoError(t, ledger.CheckBalanced(entry.Lines), "el asiento cuadra por construcción")
	for _, l := range entry.Lines {
		if l.AccountCode == entity.AccountFinishedGoods {
			assert.True(t, l.Debit.Equal(d(3_000)), "producto terminado debita el costo total")
		}
		if l.AccountCode == entity.AccountRawMaterials {
			assert.True(t, l.Credit.Equal(d(3_000)), "materias primas acreditan lo consumido")
		}
	}
}

// TestCreate_InsumoInsuficienteNadaPersiste: si un insumo no alcanza, la
// orden completa se descarta: sin documento, sin asiento y con los insumos
// ya consumidos de vuelta en sus capas.
func TestCreate_InsumoInsuficienteNadaPersiste(t *testing.T) {
	f := newFixture(t)
	harina := f.newItem(t, entity.ItemTypeRawMaterial, 10, 200)
	azucar := f.newItem(t, entity.ItemTypeRawMaterial, 2, 100)
	pan := f.newItem(t, entity.ItemTypeFinishedGood, 0, 0)

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateProductionRunRequest{
		WarehouseID:  f.wh.ID,
		OutputItemID: pan.ID,
		OutputQty:    d(1),
		Inputs: []dto.ProductionInputRequest{
			{ItemID: harina.ID, Quantity: d(5)}, // alcanza a consumirse
			{ItemID: azucar.ID, Quantity: d(9)}, // revienta la transacción
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.store.Runs)
	assert.Empty(t, f.store.Entries)
	assert.True(t, f.store.Items[harina.ID].QuantityOnHand.Equal(d(10)),
		"el consumo de harina se revirtió con el rollback")
	assert.True(t, f.store.Items[pan.ID].QuantityOnHand.IsZero())
}

// TestCreate_CostoNoDivisibleSeRedondea: cuando el costo total no divide
// exacto entre la cantidad producida (10 / 3), el costo unitario de la capa
// se redondea a la escala de 4 decimales de la columna; el asiento sigue
// llevando el costo total exacto consumido.
func TestCreate_CostoNoDivisibleSeRedondea(t *testing.T) {
	f := newFixture(t)
	harina := f.newItem(t, entity.ItemTypeRawMaterial, 10, 1) // 10 × 1 = 10
	pan := f.newItem(t, entity.ItemTypeFinishedGood, 0, 0)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateProductionRunRequest{
		WarehouseID:  f.wh.ID,
		OutputItemID: pan.ID,
		OutputQty:    d(3),
		Inputs: []dto.ProductionInputRequest{
			{ItemID: harina.ID, Quantity: d(10)},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(d(10)))

	var outLayer *entity.InventoryLayer
	for _, l := range f.store.Layers {
		if l.ItemID == pan.ID {
			outLayer = l
		}
	}
	require.NotNil(t, outLayer)
	want := decimal.RequireFromString("3.3333")
	assert.True(t, outLayer.UnitCost.Equal(want),
		"10/3 redondeado a 4 decimales, fue %s", outLayer.UnitCost)

	var entry *entity.JournalEntry
	for _, e := range f.store.Entries {
		if e.DocType == entity.DocTypeProductionRun && e.DocID == resp.ID {
			entry = e
		}
	}
	require.NotNil(t, entry)
	for _, l := range entry.Lines {
		if l.AccountCode == entity.AccountFinishedGoods {
			assert.True(t, l.Debit.Equal(d(10)), "el diario lleva el costo exacto, no el redondeado")
		}
	}
}

// TestCreate_ProducirElMismoInsumoEsInvalido: un ítem no puede ser insumo y
// salida a la vez.
func TestCreate_ProducirElMismoInsumoEsInvalido(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, 10, 100)

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateProductionRunRequest{
		WarehouseID:  f.wh.ID,
		OutputItemID: item.ID,
		OutputQty:    d(1),
		Inputs:       []dto.ProductionInputRequest{{ItemID: item.ID, Quantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestCreate_SalidaServicioInvalida: no se produce un SERVICE.
func TestCreate_SalidaServicioInvalida(t *testing.T) {
	f := newFixture(t)
	insumo := f.newItem(t, entity.ItemTypeRawMaterial, 10, 100)
	svc := f.newItem(t, entity.ItemTypeService, 0, 0)

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateProductionRunRequest{
		WarehouseID:  f.wh.ID,
		OutputItemID: svc.ID,
		OutputQty:    d(1),
		Inputs:       []dto.ProductionInputRequest{{ItemID: insumo.ID, Quantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
