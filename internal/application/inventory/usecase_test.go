package inventory_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
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

func newStockUC(store *apptest.Store) *inventory.StockLedgerUseCase {
	runner := &apptest.TxRunner{S: store}
	return inventory.NewStockLedgerUseCase(runner, store.ItemRepo(), store.WarehouseRepo())
}

func seedItem(store *apptest.Store, itemType string) *entity.Item {
	item := &entity.Item{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SKU:             "SKU-" + uuid.New().String()[:8],
		Name:            "Ítem de prueba",
		Type:            itemType,
		ValuationMethod: entity.ValuationFIFO,
	}
	store.Items[item.ID] = item
	return item
}

func seedWarehouse(store *apptest.Store) *entity.Warehouse {
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      "Bodega principal",
	}
	store.Warehouses[wh.ID] = wh
	return wh
}

// recibir registra una entrada y falla el test si algo sale mal.
func recibir(t *testing.T, uc *inventory.StockLedgerUseCase, item *entity.Item, whID string, qty, cost int64) {
	t.Helper()
	_, err := uc.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
		ItemID:      item.ID,
		WarehouseID: whID,
		Quantity:    d(qty),
		UnitCost:    d(cost),
	})
	require.NoError(t, err)
}

// TestReceiveStock_DevuelveMovimientoPersistido: la respuesta lleva el
// movimiento realmente guardado (con su ID y tipo de documento), no uno
// fabricado.
func TestReceiveStock_DevuelveMovimientoPersistido(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeRawMaterial)
	wh := seedWarehouse(store)

	resp, err := uc.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
		ItemID:      item.ID,
		WarehouseID: wh.ID,
		Quantity:    d(4),
		UnitCost:    d(250),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	var saved *entity.InventoryMovement
	for _, m := range store.Movements {
		if m.ID == resp.ID {
			saved = m
		}
	}
	require.NotNil(t, saved, "el ID de la respuesta corresponde a un movimiento guardado")
	assert.Equal(t, entity.DocTypeAdjustment, resp.DocType)
	assert.Equal(t, saved.LayerID, resp.LayerID)
	assert.True(t, resp.TotalCost.Equal(d(1000)))
}

// TestIssueStock_CostoFIFOEntreCapas: capas [5 @ 1.000.000] y [5 @ 1.500.000];
// sacar 7 agota la primera y toma 2 de la segunda. Costo = 8.000.000 y el
// caché del ítem queda en 3 unidades.
func TestIssueStock_CostoFIFOEntreCapas(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	wh := seedWarehouse(store)

	recibir(t, uc, item, wh.ID, 5, 1_000_000)
	recibir(t, uc, item, wh.ID, 5, 1_500_000)

	resp, err := uc.IssueStock(context.Background(), companyID, userID, dto.IssueStockRequest{
		ItemID:   item.ID,
		Quantity: d(7),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(d(8_000_000)),
		"costo = 5×1.000.000 + 2×1.500.000, fue %s", resp.TotalCost)

	got := store.Items[item.ID]
	assert.True(t, got.QuantityOnHand.Equal(d(3)), "caché actualizado tras la salida")
	assert.True(t, got.AverageCost.Equal(d(1_500_000)), "solo sobrevive la capa cara")

	depleted := 0
	for _, l := range store.Layers {
		if l.IsDepleted {
			depleted++
		}
	}
	assert.Equal(t, 1, depleted, "la capa más antigua quedó agotada")
}

// TestIssueStock_InsuficienteSinMutacion: pedir más de lo disponible retorna
// ErrInsufficientStock y no toca capas, movimientos ni caché.
func TestIssueStock_InsuficienteSinMutacion(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeRawMaterial)
	wh := seedWarehouse(store)
	recibir(t, uc, item, wh.ID, 10, 500)
	movsBefore := len(store.Movements)

	_, err := uc.IssueStock(context.Background(), companyID, userID, dto.IssueStockRequest{
		ItemID:   item.ID,
		Quantity: d(12),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, store.Movements, movsBefore, "sin movimientos nuevos")
	for _, l := range store.Layers {
		assert.True(t, l.RemainingQty.Equal(d(10)), "capa intacta")
		assert.False(t, l.IsDepleted)
	}
	assert.True(t, store.Items[item.ID].QuantityOnHand.Equal(d(10)))
}

// TestIssueStock_RollbackPorFalloDeInfraestructura: si escribir el caché
// falla a mitad de la transacción, las capas ya decrementadas vuelven a su
// estado original. Nada parcial persiste.
func TestIssueStock_RollbackPorFalloDeInfraestructura(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	wh := seedWarehouse(store)
	recibir(t, uc, item, wh.ID, 10, 1_000)

	boom := assert.AnError
	store.FailOn["Items.UpdateCache"] = boom

	_, err := uc.IssueStock(context.Background(), companyID, userID, dto.IssueStockRequest{
		ItemID:   item.ID,
		Quantity: d(4),
	})
	require.ErrorIs(t, err, boom)

	delete(store.FailOn, "Items.UpdateCache")
	for _, l := range store.Layers {
		assert.True(t, l.RemainingQty.Equal(d(10)), "rollback restauró la capa")
	}
	assert.Len(t, store.Movements, 1, "solo el movimiento de la entrada inicial")
}

// TestIssueStock_PorBodega: con stock en dos bodegas, una salida acotada a
// una bodega solo consume capas de esa bodega aunque la otra tenga capas
// más antiguas.
func TestIssueStock_PorBodega(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	whA := seedWarehouse(store)
	whB := seedWarehouse(store)

	recibir(t, uc, item, whA.ID, 5, 100) // más antigua, bodega A
	recibir(t, uc, item, whB.ID, 5, 200)

	resp, err := uc.IssueStock(context.Background(), companyID, userID, dto.IssueStockRequest{
		ItemID:      item.ID,
		WarehouseID: whB.ID,
		Quantity:    d(3),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalCost.Equal(d(600)), "consume solo la capa de la bodega B")

	for _, l := range store.Layers {
		if l.WarehouseID == whA.ID {
			assert.True(t, l.RemainingQty.Equal(d(5)), "bodega A intacta")
		}
	}
}

// TestAdjustStock_DeltaNegativoNoDejaNegativos: ajustar por debajo del stock
// disponible falla con ErrInsufficientStock.
func TestAdjustStock_DeltaNegativoNoDejaNegativos(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeRawMaterial)
	wh := seedWarehouse(store)
	recibir(t, uc, item, wh.ID, 3, 100)

	err := uc.AdjustStock(context.Background(), companyID, userID, dto.AdjustStockRequest{
		ItemID:      item.ID,
		WarehouseID: wh.ID,
		Delta:       d(-5),
		Reason:      "conteo físico",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.Items[item.ID].QuantityOnHand.Equal(d(3)))
}

// TestAdjustStock_DeltaPositivoCreaCapa: el ajuste positivo crea una capa
// nueva etiquetada con la razón, al costo indicado.
func TestAdjustStock_DeltaPositivoCreaCapa(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeRawMaterial)
	wh := seedWarehouse(store)

	cost := d(250)
	err := uc.AdjustStock(context.Background(), companyID, userID, dto.AdjustStockRequest{
		ItemID:      item.ID,
		WarehouseID: wh.ID,
		Delta:       d(4),
		UnitCost:    &cost,
		Reason:      "hallazgo en inventario",
	})
	require.NoError(t, err)
	require.Len(t, store.Layers, 1)
	for _, l := range store.Layers {
		assert.Equal(t, "hallazgo en inventario", l.Reason)
		assert.True(t, l.UnitCost.Equal(d(250)))
	}
	assert.True(t, store.Items[item.ID].QuantityOnHand.Equal(d(4)))
}

// TestTransferStock_ConservaFechaYCosto: el traslado agota en origen y crea
// capas espejo en destino al mismo costo y con el received_at original, para
// que un traslado no rejuvenezca el orden FIFO.
func TestTransferStock_ConservaFechaYCosto(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	from := seedWarehouse(store)
	to := seedWarehouse(store)
	recibir(t, uc, item, from.ID, 6, 1_000)

	var originalReceived = map[string]bool{}
	for _, l := range store.Layers {
		originalReceived[l.ReceivedAt.String()] = true
	}

	err := uc.TransferStock(context.Background(), companyID, userID, dto.TransferStockRequest{
		ItemID:          item.ID,
		FromWarehouseID: from.ID,
		ToWarehouseID:   to.ID,
		Quantity:        d(6),
	})
	require.NoError(t, err)

	var mirror *entity.InventoryLayer
	for _, l := range store.Layers {
		if l.WarehouseID == to.ID {
			mirror = l
		}
	}
	require.NotNil(t, mirror, "capa espejo en destino")
	assert.True(t, mirror.RemainingQty.Equal(d(6)))
	assert.True(t, mirror.UnitCost.Equal(d(1_000)), "mismo costo unitario")
	assert.True(t, originalReceived[mirror.ReceivedAt.String()],
		"conserva la fecha de recepción original")
	assert.True(t, store.Items[item.ID].QuantityOnHand.Equal(d(6)),
		"el total del ítem no cambia con un traslado")
}

// TestTransferStock_MismaBodegaInvalida: origen == destino es entrada inválida.
func TestTransferStock_MismaBodegaInvalida(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeFinishedGood)
	wh := seedWarehouse(store)

	err := uc.TransferStock(context.Background(), companyID, userID, dto.TransferStockRequest{
		ItemID:          item.ID,
		FromWarehouseID: wh.ID,
		ToWarehouseID:   wh.ID,
		Quantity:        d(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestReceiveStock_ServicioNoLlevaInventario: un ítem SERVICE no puede
// recibir stock.
func TestReceiveStock_ServicioNoLlevaInventario(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	item := seedItem(store, entity.ItemTypeService)
	wh := seedWarehouse(store)

	_, err := uc.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
		ItemID:      item.ID,
		WarehouseID: wh.ID,
		Quantity:    d(1),
		UnitCost:    d(100),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestReceiveStock_ItemDeOtraEmpresa: operar un ítem ajeno es forbidden.
func TestReceiveStock_ItemDeOtraEmpresa(t *testing.T) {
	store := apptest.NewStore()
	uc := newStockUC(store)
	wh := seedWarehouse(store)
	ajeno := &entity.Item{ID: uuid.New().String(), CompanyID: "otra-empresa", SKU: "X", Type: entity.ItemTypeRawMaterial}
	store.Items[ajeno.ID] = ajeno

	_, err := uc.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
		ItemID:      ajeno.ID,
		WarehouseID: wh.ID,
		Quantity:    d(1),
		UnitCost:    d(1),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
