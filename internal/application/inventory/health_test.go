package inventory_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthUC(store *apptest.Store) (*inventory.HealthUseCase, *inventory.StockLedgerUseCase) {
	runner := &apptest.TxRunner{S: store}
	stock := inventory.NewStockLedgerUseCase(runner, store.ItemRepo(), store.WarehouseRepo())
	return inventory.NewHealthUseCase(runner, store.LayerRepo(), stock), stock
}

// TestCheckHealth_DetectaDeriva: un caché corrupto (escrito por fuera del
// libro de inventario) aparece en el reporte con la discrepancia exacta;
// Resync lo repara desde las capas y un segundo chequeo sale limpio.
func TestCheckHealth_DetectaDerivaYResyncRepara(t *testing.T) {
	store := apptest.NewStore()
	healthUC, stockUC := newHealthUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	wh := seedWarehouse(store)
	recibir(t, stockUC, item, wh.ID, 10, 1_000)

	// Corrupción simulada: el caché dice 7 pero las capas suman 10.
	store.Items[item.ID].QuantityOnHand = d(7)

	health, err := healthUC.CheckHealth(context.Background(), companyID)
	require.NoError(t, err)
	require.Equal(t, 1, health.OutOfSyncItems)
	require.Len(t, health.Discrepancies, 1)
	assert.Equal(t, item.ID, health.Discrepancies[0].ItemID)
	assert.Equal(t, "7", health.Discrepancies[0].CachedQty)
	assert.Equal(t, "10", health.Discrepancies[0].DerivedQty)
	assert.True(t, health.TotalDriftQty.Equal(d(3)))

	resync, err := healthUC.Resync(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, resync.ItemsResynced)
	assert.True(t, store.Items[item.ID].QuantityOnHand.Equal(d(10)),
		"el caché vuelve a la verdad derivada de capas")

	health, err = healthUC.CheckHealth(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, health.OutOfSyncItems)
}

// TestResync_SinDerivaEsNoOp: un inventario sano no dispara recálculos.
func TestResync_SinDerivaEsNoOp(t *testing.T) {
	store := apptest.NewStore()
	healthUC, stockUC := newHealthUC(store)
	item := seedItem(store, entity.ItemTypeRawMaterial)
	wh := seedWarehouse(store)
	recibir(t, stockUC, item, wh.ID, 5, 100)

	resync, err := healthUC.Resync(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, resync.ItemsResynced)
}

// TestCheckHealth_IgnoraServicios: los ítems SERVICE no llevan capas y nunca
// cuentan como deriva.
func TestCheckHealth_IgnoraServicios(t *testing.T) {
	store := apptest.NewStore()
	healthUC, _ := newHealthUC(store)
	seedItem(store, entity.ItemTypeService)

	health, err := healthUC.CheckHealth(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, health.OutOfSyncItems)
}
