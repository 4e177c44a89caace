package billing_test

import (
	"context"
	"testing"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/apptest"
	"github.com/contaflow/erp-api/internal/application/billing"
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

func d(n int64) decimal.Decimal   { return decimal.NewFromInt(n) }
func dd(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *apptest.Store
	stock    *inventory.StockLedgerUseCase
	uc       *billing.InvoiceUseCase
	customer *entity.Customer
	wh       *entity.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	runner := &apptest.TxRunner{S: store}
	stock := inventory.NewStockLedgerUseCase(runner, store.ItemRepo(), store.WarehouseRepo())
	poster := accounting.NewPoster(runner, store.JournalRepo())
	uc := billing.NewInvoiceUseCase(runner, store.InvoiceRepo(), store.ItemRepo(),
		store.CustomerRepo(), store.WarehouseRepo(), store.TicketRepo(), stock, poster)

	customer := &entity.Customer{ID: uuid.New().String(), CompanyID: companyID, Name: "Cliente"}
	store.Customers[customer.ID] = customer
	wh := &entity.Warehouse{ID: uuid.New().String(), CompanyID: companyID, Name: "Bodega"}
	store.Warehouses[wh.ID] = wh

	return &fixture{store: store, stock: stock, uc: uc, customer: customer, wh: wh}
}

// newItem crea un ítem con precio, IVA y bandera de instalación, y si qty > 0
// lo recibe en bodega al costo dado.
func (f *fixture) newItem(t *testing.T, itemType, taxRate string, price int64, installs bool, qty, cost int64) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:                   uuid.New().String(),
		CompanyID:            companyID,
		SKU:                  "SKU-" + uuid.New().String()[:8],
		Type:                 itemType,
		ValuationMethod:      entity.ValuationFIFO,
		Price:                d(price),
		TaxRate:              dd(taxRate),
		RequiresInstallation: installs,
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

// activeEntry retorna el asiento vigente (no reversado, no reversa) de la
// factura, o nil.
func activeEntry(store *apptest.Store, invoiceID string) *entity.JournalEntry {
	for _, e := range store.Entries {
		if e.DocType == entity.DocTypeInvoice && e.DocID == invoiceID &&
			e.ReversedBy == "" && e.ReversesID == "" {
			return e
		}
	}
	return nil
}

func lineAmount(e *entity.JournalEntry, code string) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.AccountCode == code {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
	}
	return debit, credit
}

// TestCreate_TotalesYAsiento: vender 2 unidades a 2.000 con IVA 19% de un
// ítem recibido a 800 produce net 4.000, IVA 760, total 4.760 y COGS FIFO
// 1.600; el asiento cuadra con por cobrar contra ingresos/IVA y costo contra
// inventario de producto terminado.
func TestCreate_TotalesYAsiento(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0.19", 2_000, false, 10, 800)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(2)}},
	})
	require.NoError(t, err)

	assert.True(t, resp.NetTotal.Equal(d(4_000)))
	assert.True(t, resp.TaxTotal.Equal(d(760)))
	assert.True(t, resp.GrandTotal.Equal(d(4_760)))
	assert.True(t, resp.COGSTotal.Equal(d(1_600)), "COGS = 2 × 800 FIFO")
	assert.Equal(t, entity.DocStatusOpen, resp.Status)
	assert.Empty(t, resp.TicketID, "sin ítems de instalación no hay ticket")

	entry := activeEntry(f.store, resp.ID)
	require.NotNil(t, entry, "la venta publicó su asiento")
	deb, _ := lineAmount(entry, entity.AccountReceivable)
	assert.True(t, deb.Equal(d(4_760)), "clientes debita el total")
	_, cred := lineAmount(entry, entity.AccountSalesIncome)
	assert.True(t, cred.Equal(d(4_000)))
	_, cred = lineAmount(entry, entity.AccountTaxPayable)
	assert.True(t, cred.Equal(d(760)))
	deb, _ = lineAmount(entry, entity.AccountCOGS)
	assert.True(t, deb.Equal(d(1_600)))
	_, cred = lineAmount(entry, entity.AccountFinishedGoods)
	assert.True(t, cred.Equal(d(1_600)), "el inventario se acredita por el costo real")

	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(8)))
}

// TestCreate_CostoFIFOEntreCapas: las líneas consumen capas en orden de
// antigüedad aunque crucen varias.
func TestCreate_CostoFIFOEntreCapas(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0", 3_000_000, false, 5, 1_000_000)
	_, err := f.stock.ReceiveStock(context.Background(), companyID, userID, dto.ReceiveStockRequest{
		ItemID: item.ID, WarehouseID: f.wh.ID, Quantity: d(5), UnitCost: d(1_500_000),
	})
	require.NoError(t, err)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(7)}},
	})
	require.NoError(t, err)
	assert.True(t, resp.COGSTotal.Equal(d(8_000_000)),
		"5×1.000.000 + 2×1.500.000, fue %s", resp.COGSTotal)
}

// TestCreate_TicketUnoConActivoPorLinea: dos líneas con instalación y una
// sin ella crean UN ticket con DOS activos; la cantidad de la línea no
// multiplica activos.
func TestCreate_TicketUnoConActivoPorLinea(t *testing.T) {
	f := newFixture(t)
	conInst1 := f.newItem(t, entity.ItemTypeFinishedGood, "0", 500, true, 10, 100)
	conInst2 := f.newItem(t, entity.ItemTypeFinishedGood, "0", 900, true, 10, 200)
	sinInst := f.newItem(t, entity.ItemTypeFinishedGood, "0", 300, false, 10, 50)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items: []dto.InvoiceItemRequest{
			{ItemID: conInst1.ID, Quantity: d(3)},
			{ItemID: conInst2.ID, Quantity: d(2)},
			{ItemID: sinInst.ID, Quantity: d(1)},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.TicketID)

	require.Len(t, f.store.Tickets, 1, "máximo un ticket por factura")
	ticket := f.store.Tickets[resp.TicketID]
	require.NotNil(t, ticket)
	assert.Equal(t, entity.TicketStatusOpen, ticket.Status)
	assert.Equal(t, f.customer.ID, ticket.CustomerID)

	require.Len(t, f.store.Assets, 2, "un activo por línea calificada, no por unidad")
	for _, a := range f.store.Assets {
		assert.Equal(t, resp.TicketID, a.TicketID)
		assert.Equal(t, entity.AssetStatusPendingInstallation, a.Status)
		assert.NotEmpty(t, a.InvoiceLineID)
	}
}

// TestCreate_SinStockNadaPersiste: si una línea no tiene stock suficiente,
// la factura completa se descarta: sin documento, sin asiento, sin ticket y
// con las capas de las líneas anteriores intactas.
func TestCreate_SinStockNadaPersiste(t *testing.T) {
	f := newFixture(t)
	ok := f.newItem(t, entity.ItemTypeFinishedGood, "0", 500, true, 10, 100)
	sinStock := f.newItem(t, entity.ItemTypeFinishedGood, "0", 500, false, 1, 100)
	movsBefore := len(f.store.Movements)

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items: []dto.InvoiceItemRequest{
			{ItemID: ok.ID, Quantity: d(5)},       // esta línea alcanza a aplicarse
			{ItemID: sinStock.ID, Quantity: d(3)}, // esta revienta la transacción
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.store.Invoices, "sin cabecera")
	assert.Empty(t, f.store.InvoiceLines, "sin líneas")
	assert.Empty(t, f.store.Entries, "sin asiento")
	assert.Empty(t, f.store.Tickets, "sin ticket")
	assert.Len(t, f.store.Movements, movsBefore, "sin movimientos nuevos")
	assert.True(t, f.store.Items[ok.ID].QuantityOnHand.Equal(d(10)),
		"la salida de la primera línea se revirtió con el rollback")
}

// TestCreate_FalloDelTicketRevierteFactura: el ticket de instalación corre
// dentro de la misma transacción de la factura; si su creación falla, la
// factura completa se descarta: sin documento, sin asiento, sin movimientos
// y con el stock intacto.
func TestCreate_FalloDelTicketRevierteFactura(t *testing.T) {
	f := newFixture(t)
	equipo := f.newItem(t, entity.ItemTypeFinishedGood, "0", 2_000, true, 10, 800)
	movsBefore := len(f.store.Movements)
	f.store.FailOn["Tickets.CreateAsset"] = assert.AnError

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: equipo.ID, Quantity: d(2)}},
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.Empty(t, f.store.Invoices, "sin cabecera")
	assert.Empty(t, f.store.InvoiceLines, "sin líneas")
	assert.Empty(t, f.store.Entries, "sin asiento")
	assert.Empty(t, f.store.Tickets, "sin ticket")
	assert.Empty(t, f.store.Assets, "sin activos")
	assert.Len(t, f.store.Movements, movsBefore, "sin movimientos nuevos")
	assert.True(t, f.store.Items[equipo.ID].QuantityOnHand.Equal(d(10)),
		"la salida FIFO se revirtió con el rollback")
}

// TestCreate_ServicioNoMueveInventario: una línea SERVICE suma al total pero
// no genera salida FIFO ni costo.
func TestCreate_ServicioNoMueveInventario(t *testing.T) {
	f := newFixture(t)
	svc := f.newItem(t, entity.ItemTypeService, "0", 1_000, false, 0, 0)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: svc.ID, Quantity: d(2)}},
	})
	require.NoError(t, err)
	assert.True(t, resp.NetTotal.Equal(d(2_000)))
	assert.True(t, resp.COGSTotal.IsZero())
	assert.Empty(t, f.store.Movements)
	assert.Empty(t, f.store.Layers)
}

// TestUpdate_ReversaYReaplica: editar una factura OPEN devuelve el stock a
// sus capas originales, reversa el asiento con asiento espejo y aplica las
// líneas nuevas; el ticket se recrea según las líneas vigentes.
func TestUpdate_ReversaYReaplica(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0", 1_000, true, 10, 400)

	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(2)}},
	})
	require.NoError(t, err)
	firstTicket := created.TicketID
	require.NotEmpty(t, firstTicket)

	updated, err := f.uc.Update(context.Background(), companyID, userID, created.ID, dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(5)}},
	})
	require.NoError(t, err)

	assert.True(t, updated.COGSTotal.Equal(d(2_000)), "COGS recalculado: 5 × 400")
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(5)),
		"10 recibidas − 5 de la versión vigente")

	// Diario: original + reversa + asiento nuevo; solo uno vigente.
	assert.Len(t, f.store.Entries, 3)
	entry := activeEntry(f.store, created.ID)
	require.NotNil(t, entry)
	deb, _ := lineAmount(entry, entity.AccountCOGS)
	assert.True(t, deb.Equal(d(2_000)))

	// Ticket recreado para las líneas vigentes.
	require.Len(t, f.store.Tickets, 1)
	assert.NotEqual(t, firstTicket, updated.TicketID, "el ticket original se eliminó")
	require.Len(t, f.store.Assets, 1)
}

// TestUpdate_DocumentoBloqueado: una factura PAID no se edita.
func TestUpdate_DocumentoBloqueado(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0", 1_000, false, 10, 400)

	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(1)}},
	})
	require.NoError(t, err)
	f.store.Invoices[created.ID].Status = entity.DocStatusPaid

	_, err = f.uc.Update(context.Background(), companyID, userID, created.ID, dto.UpdateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(2)}},
	})
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)

	err = f.uc.Delete(context.Background(), companyID, userID, created.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentLocked)
}

// TestDelete_ReversaTodo: eliminar una factura OPEN restaura el inventario
// exacto, deja el asiento original reversado (inmutable, nunca borrado) y
// elimina ticket y activos.
func TestDelete_ReversaTodo(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0.19", 1_000, true, 10, 400)

	created, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(4)}},
	})
	require.NoError(t, err)

	err = f.uc.Delete(context.Background(), companyID, userID, created.ID)
	require.NoError(t, err)

	assert.Empty(t, f.store.Invoices)
	assert.Empty(t, f.store.Tickets)
	assert.Empty(t, f.store.Assets)
	assert.True(t, f.store.Items[item.ID].QuantityOnHand.Equal(d(10)),
		"el stock volvió a su capa original")
	assert.Nil(t, activeEntry(f.store, created.ID), "sin asiento vigente")
	assert.Len(t, f.store.Entries, 2, "original + reversa: el diario nunca borra")
}

// TestCreate_PrecioDeListaPorDefecto: una línea con precio cero usa el
// precio de lista del ítem.
func TestCreate_PrecioDeListaPorDefecto(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0", 750, false, 5, 100)

	resp, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  f.customer.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(2)}},
	})
	require.NoError(t, err)
	assert.True(t, resp.NetTotal.Equal(d(1_500)), "2 × precio de lista 750")
}

// TestCreate_ClienteAjeno: facturar a un cliente de otra empresa es not found.
func TestCreate_ClienteAjeno(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, entity.ItemTypeFinishedGood, "0", 100, false, 5, 10)
	ajeno := &entity.Customer{ID: uuid.New().String(), CompanyID: "otra", Name: "X"}
	f.store.Customers[ajeno.ID] = ajeno

	_, err := f.uc.Create(context.Background(), companyID, userID, dto.CreateInvoiceRequest{
		CustomerID:  ajeno.ID,
		WarehouseID: f.wh.ID,
		Items:       []dto.InvoiceItemRequest{{ItemID: item.ID, Quantity: d(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
