package admin_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/admin"
	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyID = "co-1"

// seedCompanyData puebla maestros y datos transaccionales de la empresa.
func seedCompanyData(store *apptest.Store) *entity.Item {
	item := &entity.Item{
		ID:             "item-1",
		CompanyID:      companyID,
		SKU:            "SKU-1",
		Type:           entity.ItemTypeFinishedGood,
		QuantityOnHand: decimal.NewFromInt(10),
		AverageCost:    decimal.NewFromInt(500),
	}
	store.Items[item.ID] = item
	store.Warehouses["wh-1"] = &entity.Warehouse{ID: "wh-1", CompanyID: companyID, Name: "Bodega"}
	store.Customers["cust-1"] = &entity.Customer{ID: "cust-1", CompanyID: companyID, Name: "Cliente"}
	store.Accounts["acct-1"] = &entity.Account{ID: "acct-1", CompanyID: companyID, Code: entity.AccountCash}

	store.Layers["layer-1"] = &entity.InventoryLayer{
		ID: "layer-1", CompanyID: companyID, ItemID: item.ID, WarehouseID: "wh-1",
		InitialQty: decimal.NewFromInt(10), RemainingQty: decimal.NewFromInt(10),
	}
	store.Movements = append(store.Movements, &entity.InventoryMovement{
		ID: "mov-1", CompanyID: companyID, ItemID: item.ID, LayerID: "layer-1",
	})
	store.Entries["je-1"] = &entity.JournalEntry{ID: "je-1", CompanyID: companyID}
	store.Invoices["inv-1"] = &entity.Invoice{ID: "inv-1", CompanyID: companyID}
	store.Bills["bill-1"] = &entity.Bill{ID: "bill-1", CompanyID: companyID}
	store.Runs["run-1"] = &entity.ProductionRun{ID: "run-1", CompanyID: companyID}
	store.Tickets["tk-1"] = &entity.ServiceTicket{ID: "tk-1", CompanyID: companyID, InvoiceID: "inv-1"}
	store.Assets = append(store.Assets, &entity.CustomerAsset{ID: "as-1", CompanyID: companyID, TicketID: "tk-1"})
	return item
}

// TestReset_BorraTransaccionalPreservaMaestros: el reset elimina documentos,
// capas, movimientos, asientos, tickets y activos, deja el caché de stock en
// cero y NO toca catálogo ni maestros.
func TestReset_BorraTransaccionalPreservaMaestros(t *testing.T) {
	store := apptest.NewStore()
	item := seedCompanyData(store)
	uc := admin.NewResetUseCase(&apptest.TxRunner{S: store})

	resp, err := uc.Reset(context.Background(), companyID, entity.RoleAdmin,
		dto.ResetRequest{Confirmation: admin.ResetConfirmation})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)

	assert.Empty(t, store.Layers)
	assert.Empty(t, store.Movements)
	assert.Empty(t, store.Entries)
	assert.Empty(t, store.Invoices)
	assert.Empty(t, store.Bills)
	assert.Empty(t, store.Runs)
	assert.Empty(t, store.Tickets)
	assert.Empty(t, store.Assets)

	assert.Contains(t, store.Items, item.ID, "el catálogo sobrevive")
	assert.Contains(t, store.Warehouses, "wh-1")
	assert.Contains(t, store.Customers, "cust-1")
	assert.Contains(t, store.Accounts, "acct-1")
	assert.True(t, store.Items[item.ID].QuantityOnHand.IsZero(), "caché en cero")
	assert.True(t, store.Items[item.ID].AverageCost.IsZero())
}

// TestReset_FraseIncorrecta: la confirmación se compara exacta, sensible a
// mayúsculas; cualquier variación rechaza sin borrar nada.
func TestReset_FraseIncorrecta(t *testing.T) {
	store := apptest.NewStore()
	seedCompanyData(store)
	uc := admin.NewResetUseCase(&apptest.TxRunner{S: store})

	for _, phrase := range []string{"", "eliminar datos transaccionales", "ELIMINAR DATOS"} {
		_, err := uc.Reset(context.Background(), companyID, entity.RoleAdmin,
			dto.ResetRequest{Confirmation: phrase})
		assert.ErrorIs(t, err, domain.ErrConfirmationMismatch)
	}
	assert.Len(t, store.Invoices, 1, "nada se borró")
}

// TestReset_SoloAdmin: cualquier otro rol es forbidden, incluso con la
// frase correcta.
func TestReset_SoloAdmin(t *testing.T) {
	store := apptest.NewStore()
	seedCompanyData(store)
	uc := admin.NewResetUseCase(&apptest.TxRunner{S: store})

	for _, role := range []string{entity.RoleContador, entity.RoleBodeguero, entity.RoleVendedor} {
		_, err := uc.Reset(context.Background(), companyID, role,
			dto.ResetRequest{Confirmation: admin.ResetConfirmation})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	assert.Len(t, store.Layers, 1)
}

// TestReset_NoTocaOtrasEmpresas: el borrado es por empresa.
func TestReset_NoTocaOtrasEmpresas(t *testing.T) {
	store := apptest.NewStore()
	seedCompanyData(store)
	store.Invoices["inv-ajena"] = &entity.Invoice{ID: "inv-ajena", CompanyID: "otra-empresa"}
	uc := admin.NewResetUseCase(&apptest.TxRunner{S: store})

	_, err := uc.Reset(context.Background(), companyID, entity.RoleAdmin,
		dto.ResetRequest{Confirmation: admin.ResetConfirmation})
	require.NoError(t, err)
	assert.Contains(t, store.Invoices, "inv-ajena", "los datos de otra empresa sobreviven")
}
