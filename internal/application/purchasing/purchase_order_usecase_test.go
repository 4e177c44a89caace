package purchasing_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/purchasing"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPOUC(f *fixture) *purchasing.PurchaseOrderUseCase {
	return purchasing.NewPurchaseOrderUseCase(&apptest.TxRunner{S: f.store}, f.store.PORepo(),
		f.store.ItemRepo(), f.store.VendorRepo(), f.store.WarehouseRepo())
}

// TestPOCreate_SinEfectosDeInventario: una orden de compra es solo el
// documento previo: no crea capas, movimientos ni asientos.
func TestPOCreate_SinEfectosDeInventario(t *testing.T) {
	f := newFixture(t)
	uc := newPOUC(f)
	item := f.newItem(entity.ItemTypeRawMaterial, "0.19")

	resp, err := uc.Create(context.Background(), companyID, userID, dto.CreatePurchaseOrderRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items: []dto.BillItemRequest{
			{ItemID: item.ID, Quantity: d(10), UnitCost: d(500)},
			{ItemID: item.ID, Quantity: d(2), UnitCost: d(450)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusOpen, resp.Status)
	assert.True(t, resp.Total.Equal(d(5_900)), "10×500 + 2×450")
	assert.Len(t, resp.Lines, 2)

	assert.Empty(t, f.store.Layers, "una OC no mueve inventario")
	assert.Empty(t, f.store.Movements)
	assert.Empty(t, f.store.Entries, "una OC no publica asientos")
}

// TestPOUpdateStatus: cerrar y cancelar son válidos; un estado arbitrario no.
func TestPOUpdateStatus(t *testing.T) {
	f := newFixture(t)
	uc := newPOUC(f)
	item := f.newItem(entity.ItemTypeRawMaterial, "0")
	created, err := uc.Create(context.Background(), companyID, userID, dto.CreatePurchaseOrderRequest{
		VendorID:    f.vendor.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.BillItemRequest{{ItemID: item.ID, Quantity: d(1), UnitCost: d(100)}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.UpdateStatus(context.Background(), companyID, created.ID, entity.DocStatusClosed))
	assert.Equal(t, entity.DocStatusClosed, f.store.POs[created.ID].Status)

	err = uc.UpdateStatus(context.Background(), companyID, created.ID, "PAUSADA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestPOGet_DeOtraEmpresa: consultar la OC de otra empresa es forbidden.
func TestPOGet_DeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	uc := newPOUC(f)
	f.store.POs["po-ajena"] = &entity.PurchaseOrder{ID: "po-ajena", CompanyID: "otra-empresa"}

	_, err := uc.Get(context.Background(), companyID, "po-ajena")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
