package purchasing_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/application/purchasing"
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

func d(n int64) decimal.Decimal   { return decimal.NewFromInt(n) }
func dd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store  *apptest.Store
	stock  *inventory.StockLedgerUseCase
	uc     *purchasing.BillUseCase
	vendor *entity.Vendor
	wh     *entity.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	runner := &apptest.TxRunner{S: store}
	stock := inventory.NewStockLedgerUseCase(runner, store.ItemRepo(), store.WarehouseRepo())
	poster := accounting.NewPoster(runner, store.JournalRepo())
	uc := purchasing.NewBillUseCase(runner, store.BillRepo(), store.ItemRepo(),
		store.VendorRepo(), store.WarehouseRepo(), stock, poster)

	vendor := &entity.Vendor{ID: uuid.New().String(), CompanyID: companyID, Name: "Proveedor"}
	store.Vendors[vendor.ID] = vendor
	wh := &entity.Warehouse{ID: uuid.New().String(), CompanyID: companyID, Name: "Bodega"}
	store.Warehouses[wh.ID] = wh

	return &fixture{store: store, stock: stock, uc: uc, vendor: vendor, wh: wh}
}

func (f *fixture) newItem(itemType, taxRate string) *entity.Item {
	item := &entity.Item{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		SKU:             "SKU-" + uuid.New().String()[:8],
		Type:            itemType,
		ValuationMethod: entity.ValuationFIFO,
		TaxRate:         dd(taxRate),
	}
	f.store.Items[item.ID] = item
	return item
}

// TestCreate_CapasYAsiento: comprar 10 @ 500 con IVA 19% crea una capa FIFO
// nueva al costo de compra y publica el asiento: inventario 5.000 + IVA
// descontable 950 contra proveedores 5.950. La factura nace OPEN y PENDING.
func TestCreate_CapasYAsiento(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(entity.ItemTypeRawMaterial, "0.19")

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(10), UnitCost: d(500)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusOpen, resp.Status)
	assert.Equal(t, entity.ApprovalPending, resp.ApprovalStatus)
	assert.True(t, resp.NetTotal.Equal(d(5_000)))
	assert.True(t, resp.TaxTotal.Equal(d(950)))
	assert.True(t, resp.GrandTotal.Equal(d(5_950)))

	require.Len(t, f.store.Layers, 1)
	for _, l := range f.store.Layers {
		assert.True(t, l.RemainingQty.Equal(d(10)))
		assert.True(t, l.UnitCost.Equal(d(500)), "la capa nace al costo de compra")
	}
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(10)))

	var entry *entity.JournalEntry
	for _, e := range f.store.Entries {
		if e.DocType == entity.DocTypeBill && e.DocID == resp.ID {
			entry = e
		}
	}
	require.NotNil(t, entry)
	invDebit, payCredit, taxDebit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range entry.Lines {
		switch l.AccountCode {
		case entity.AccountRawMaterials:
			invDebit = invDebit.Add(l.Debit)
		case entity.AccountTaxPayable:
			taxDebit = taxDebit.Add(l.Debit)
		case entity.AccountPayable:
			payCredit = payCredit.Add(l.Credit)
		}
	}
	assert.True(t, invDebit.Equal(d(5_000)))
	assert.True(t, taxDebit.Equal(d(950)), "IVA descontable al débito")
	assert.True(t, payCredit.Equal(d(5_950)))
}

// TestCreate_ServicioVaAlGasto: comprar un SERVICE no crea capas; el débito
// va a la cuenta de costo.
func TestCreate_ServicioVaAlGasto(t *testing.T) {
	f := newFixture(t)
	svc := f.newItem(entity.ItemTypeService, "0")

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: svc.ID, Quantity: d(1), UnitCost: d(2_000)}},
	})
	require.NoError(t, err)
	assert.Empty(t, f.store.Layers)

	cogsDebit := decimal.Zero
	for _, e := range f.store.Entries {
		if e.DocID == resp.ID {
			for _, l := range e.Lines {
				if l.AccountCode == entity.AccountCOGS {
					cogsDebit = cogsDebit.Add(l.Debit)
				}
			}
		}
	}
	assert.True(t, cogsDebit.Equal(d(2_000)))
}

// TestApprove_SoloAdminYUnaSolaVia: aprobar requiere rol admin; la
// transición PENDING → APPROVED es de una sola vía y el segundo intento
// retorna conflicto.
func TestApprove_SoloAdminYUnaSolaVia(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(entity.ItemTypeRawMaterial, "0")
	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(1), UnitCost: d(100)}},
	})
	require.NoError(t, err)

	_, err = f.uc.Approve(context.Background(), companyID, entity.RoleContador, created.ID,
		dto.ApproveBillRequest{Status: entity.ApprovalApproved})
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo admin aprueba")

	resp, err := f.uc.Approve(context.Background(), companyID, entity.RoleAdmin, created.ID,
		dto.ApproveBillRequest{Status: entity.ApprovalApproved})
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, resp.ApprovalStatus)

	_, err = f.uc.Approve(context.Background(), companyID, entity.RoleAdmin, created.ID,
		dto.ApproveBillRequest{Status: entity.ApprovalRejected})
	assert.ErrorIs(t, err, domain.ErrConflict, "la aprobación no se revierte")
}

// TestDelete_CapaIntactaSeElimina: borrar una compra cuyas capas nadie
// consumió elimina las capas y reversa el asiento.
func TestDelete_CapaIntactaSeElimina(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(entity.ItemTypeRawMaterial, "0")
	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(8), UnitCost: d(300)}},
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), companyID, userID, created.ID)
	require.NoError(t, err)

	assert.Empty(t, f.store.Bills)
	assert.Empty(t, f.store.Layers, "la capa de la compra se eliminó")
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.IsZero())
	assert.Len(t, f.store.Entries, 2, "original + reversa")
}

// TestDelete_CapaConsumidaEsConflicto: si otro documento ya consumió parte
// de la capa creada por la compra, la reversa no puede eliminarla y la
// operación falla completa con ErrConflict.
func TestDelete_CapaConsumidaEsConflicto(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(entity.ItemTypeRawMaterial, "0")
	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(8), UnitCost: d(300)}},
	})
	require.NoError(t, err)

	// Otro documento consume parte de la capa.
	_, err = f.stock.IssueStock(context.Background(), companyID, userID, dto.IssueStockRequest{
		ItemID:   item.ID,
		Quantity: d(3),
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), companyID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.store.Bills, 1, "la compra sigue viva tras el rollback")
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(5)))
}

// TestUpdate_ReemplazaLineasYAsiento: editar una compra OPEN intacta reversa
// capas y asiento, y aplica las líneas nuevas.
func TestUpdate_ReemplazaLineasYAsiento(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(entity.ItemTypeRawMaterial, "0")
	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateBillRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(8), UnitCost: d(300)}},
	})
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), companyID, userID, created.ID, dto.UpdateBillRequest{
		Items: []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(4), UnitCost: d(350)}},
	})
	require.NoError(t, err)
	assert.True(t, updated.NetTotal.Equal(d(1_400)))
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(4)))
	require.Len(t, f.store.Layers, 1)
	for _, l := range f.store.Layers {
		assert.True(t, l.UnitCost.Equal(d(350)), "solo vive la capa de la versión vigente")
	}
	assert.Len(t, f.store.Entries, 3, "original + reversa + asiento nuevo")
}
