// Package apptest provee dobles en memoria de los puertos de persistencia
// para probar los casos de uso sin base de datos. El TxRunner falso toma un
// snapshot del estado antes de ejecutar fn y lo restaura si fn falla, de modo
// que las pruebas de atomicidad observan el mismo todo-o-nada que una
// transacción real.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
)

// Store contiene todas las colecciones en memoria.
type Store struct {
	Items        map[string]*entity.Item
	Layers       map[string]*entity.InventoryLayer
	Movements    []*entity.InventoryMovement
	Entries      map[string]*entity.JournalEntry
	Invoices     map[string]*entity.Invoice
	InvoiceLines map[string][]*entity.InvoiceLine
	Bills        map[string]*entity.Bill
	BillLines    map[string][]*entity.BillLine
	POs          map[string]*entity.PurchaseOrder
	POLines      map[string][]*entity.PurchaseOrderLine
	Runs         map[string]*entity.ProductionRun
	RunInputs    map[string][]*entity.ProductionInput
	Tickets      map[string]*entity.ServiceTicket
	Assets       []*entity.CustomerAsset
	Warehouses   map[string]*entity.Warehouse
	Customers    map[string]*entity.Customer
	Vendors      map[string]*entity.Vendor
	Users        map[string]*entity.User
	Companies    map[string]*entity.Company
	Modules      []*entity.CompanyModule
	Accounts     map[string]*entity.Account

	// FailOn simula fallos de infraestructura: si la operación nombrada se
	// invoca, devuelve el error configurado (pruebas de rollback).
	FailOn map[string]error

	layerSeq int64
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Items:        map[string]*entity.Item{},
		Layers:       map[string]*entity.InventoryLayer{},
		Entries:      map[string]*entity.JournalEntry{},
		Invoices:     map[string]*entity.Invoice{},
		InvoiceLines: map[string][]*entity.InvoiceLine{},
		Bills:        map[string]*entity.Bill{},
		BillLines:    map[string][]*entity.BillLine{},
		POs:          map[string]*entity.PurchaseOrder{},
		POLines:      map[string][]*entity.PurchaseOrderLine{},
		Runs:         map[string]*entity.ProductionRun{},
		RunInputs:    map[string][]*entity.ProductionInput{},
		Tickets:      map[string]*entity.ServiceTicket{},
		Warehouses:   map[string]*entity.Warehouse{},
		Customers:    map[string]*entity.Customer{},
		Vendors:      map[string]*entity.Vendor{},
		Users:        map[string]*entity.User{},
		Companies:    map[string]*entity.Company{},
		Accounts:     map[string]*entity.Account{},
		FailOn:       map[string]error{},
	}
}

func (s *Store) failIf(op string) error {
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// clone copia profundamente el Store (snapshot para rollback).
func (s *Store) clone() *Store {
	c := NewStore()
	c.layerSeq = s.layerSeq
	for k, v := range s.Items {
		cp := *v
		c.Items[k] = &cp
	}
	for k, v := range s.Layers {
		cp := *v
		c.Layers[k] = &cp
	}
	for _, v := range s.Movements {
		cp := *v
		c.Movements = append(c.Movements, &cp)
	}
	for k, v := range s.Entries {
		cp := *v
		cp.Lines = nil
		for _, l := range v.Lines {
			lcp := *l
			cp.Lines = append(cp.Lines, &lcp)
		}
		c.Entries[k] = &cp
	}
	for k, v := range s.Invoices {
		cp := *v
		c.Invoices[k] = &cp
	}
	for k, v := range s.InvoiceLines {
		var lines []*entity.InvoiceLine
		for _, l := range v {
			lcp := *l
			lines = append(lines, &lcp)
		}
		c.InvoiceLines[k] = lines
	}
	for k, v := range s.Bills {
		cp := *v
		c.Bills[k] = &cp
	}
	for k, v := range s.BillLines {
		var lines []*entity.BillLine
		for _, l := range v {
			lcp := *l
			lines = append(lines, &lcp)
		}
		c.BillLines[k] = lines
	}
	for k, v := range s.POs {
		cp := *v
		c.POs[k] = &cp
	}
	for k, v := range s.POLines {
		var lines []*entity.PurchaseOrderLine
		for _, l := range v {
			lcp := *l
			lines = append(lines, &lcp)
		}
		c.POLines[k] = lines
	}
	for k, v := range s.Runs {
		cp := *v
		c.Runs[k] = &cp
	}
	for k, v := range s.RunInputs {
		var inputs []*entity.ProductionInput
		for _, l := range v {
			lcp := *l
			inputs = append(inputs, &lcp)
		}
		c.RunInputs[k] = inputs
	}
	for k, v := range s.Tickets {
		cp := *v
		c.Tickets[k] = &cp
	}
	for _, v := range s.Assets {
		cp := *v
		c.Assets = append(c.Assets, &cp)
	}
	for k, v := range s.Warehouses {
		cp := *v
		c.Warehouses[k] = &cp
	}
	for k, v := range s.Customers {
		cp := *v
		c.Customers[k] = &cp
	}
	for k, v := range s.Vendors {
		cp := *v
		c.Vendors[k] = &cp
	}
	for k, v := range s.Users {
		cp := *v
		c.Users[k] = &cp
	}
	for k, v := range s.Companies {
		cp := *v
		c.Companies[k] = &cp
	}
	for _, v := range s.Modules {
		cp := *v
		c.Modules = append(c.Modules, &cp)
	}
	for k, v := range s.Accounts {
		cp := *v
		c.Accounts[k] = &cp
	}
	for k, v := range s.FailOn {
		c.FailOn[k] = v
	}
	return c
}

// Tx arma el bundle de repositorios sobre este Store.
func (s *Store) Tx() *repository.Tx {
	return &repository.Tx{
		Items:          s.ItemRepo(),
		Layers:         s.LayerRepo(),
		Movements:      s.MovementRepo(),
		Journal:        s.JournalRepo(),
		Invoices:       s.InvoiceRepo(),
		Bills:          s.BillRepo(),
		PurchaseOrders: s.PORepo(),
		ProductionRuns: s.RunRepo(),
		Tickets:        s.TicketRepo(),
		Reset:          s.ResetRepo(),
	}
}

// Accesores de repositorios individuales (para los constructores de usecases).
func (s *Store) ItemRepo() repository.ItemRepository           { return &itemRepo{s} }
func (s *Store) LayerRepo() repository.LayerRepository         { return &layerRepo{s} }
func (s *Store) MovementRepo() repository.MovementRepository   { return &movementRepo{s} }
func (s *Store) JournalRepo() repository.JournalRepository     { return &journalRepo{s} }
func (s *Store) InvoiceRepo() repository.InvoiceRepository     { return &invoiceRepo{s} }
func (s *Store) BillRepo() repository.BillRepository           { return &billRepo{s} }
func (s *Store) PORepo() repository.PurchaseOrderRepository    { return &poRepo{s} }
func (s *Store) RunRepo() repository.ProductionRunRepository   { return &runRepo{s} }
func (s *Store) TicketRepo() repository.TicketRepository       { return &ticketRepo{s} }
func (s *Store) ResetRepo() repository.ResetRepository         { return &resetRepo{s} }
func (s *Store) WarehouseRepo() repository.WarehouseRepository { return &warehouseRepo{s} }
func (s *Store) CustomerRepo() repository.CustomerRepository   { return &customerRepo{s} }
func (s *Store) VendorRepo() repository.VendorRepository       { return &vendorRepo{s} }
func (s *Store) UserRepo() repository.UserRepository           { return &userRepo{s} }
func (s *Store) CompanyRepo() repository.CompanyRepository     { return &companyRepo{s} }
func (s *Store) AccountRepo() repository.AccountRepository     { return &accountRepo{s} }

// TxRunner ejecuta fn contra el Store con semántica todo-o-nada.
type TxRunner struct {
	S *Store
}

// Run toma snapshot, ejecuta fn y restaura el snapshot si fn falla.
func (t *TxRunner) Run(ctx context.Context, fn func(r *repository.Tx) error) error {
	snap := t.S.clone()
	if err := fn(t.S.Tx()); err != nil {
		*t.S = *snap
		return err
	}
	return nil
}

var _ repository.TxRunner = (*TxRunner)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────────────────────────────────

type itemRepo struct{ s *Store }

func (r *itemRepo) Create(item *entity.Item) error {
	if err := r.s.failIf("Items.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.Items {
		if existing.CompanyID == item.CompanyID && existing.SKU == item.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *item
	r.s.Items[item.ID] = &cp
	return nil
}

func (r *itemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.s.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *itemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	for _, item := range r.s.Items {
		if item.CompanyID == companyID && item.SKU == sku {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) Update(item *entity.Item) error {
	if _, ok := r.s.Items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.Items[item.ID] = &cp
	return nil
}

func (r *itemRepo) UpdateCache(itemID string, quantityOnHand, averageCost decimal.Decimal) error {
	if err := r.s.failIf("Items.UpdateCache"); err != nil {
		return err
	}
	item, ok := r.s.Items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	item.QuantityOnHand = quantityOnHand
	item.AverageCost = averageCost
	return nil
}

func (r *itemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.s.Items {
		if item.CompanyID == companyID {
			cp := *item
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *itemRepo) Delete(id string) error {
	delete(r.s.Items, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Capas FIFO
// ──────────────────────────────────────────────────────────────────────────────

type layerRepo struct{ s *Store }

func (r *layerRepo) Create(layer *entity.InventoryLayer) error {
	if err := r.s.failIf("Layers.Create"); err != nil {
		return err
	}
	r.s.layerSeq++
	layer.Seq = r.s.layerSeq
	cp := *layer
	r.s.Layers[layer.ID] = &cp
	return nil
}

func (r *layerRepo) GetByID(id string) (*entity.InventoryLayer, error) {
	layer, ok := r.s.Layers[id]
	if !ok {
		return nil, nil // mismo contrato que el adaptador pgx: sin fila = nil, nil
	}
	cp := *layer
	return &cp, nil
}

func (r *layerRepo) GetForUpdate(id string) (*entity.InventoryLayer, error) {
	return r.GetByID(id)
}

func (r *layerRepo) ListOpenForUpdate(itemID, warehouseID string) ([]*entity.InventoryLayer, error) {
	return r.listOpen(itemID, warehouseID), nil
}

func (r *layerRepo) ListOpen(itemID string) ([]*entity.InventoryLayer, error) {
	return r.listOpen(itemID, ""), nil
}

func (r *layerRepo) listOpen(itemID, warehouseID string) []*entity.InventoryLayer {
	var out []*entity.InventoryLayer
	for _, layer := range r.s.Layers {
		if layer.ItemID != itemID || layer.IsDepleted || !layer.RemainingQty.IsPositive() {
			continue
		}
		if warehouseID != "" && layer.WarehouseID != warehouseID {
			continue
		}
		cp := *layer
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out
}

func (r *layerRepo) UpdateRemaining(layer *entity.InventoryLayer) error {
	if err := r.s.failIf("Layers.UpdateRemaining"); err != nil {
		return err
	}
	stored, ok := r.s.Layers[layer.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.RemainingQty = layer.RemainingQty
	stored.IsDepleted = layer.IsDepleted
	stored.UpdatedAt = layer.UpdatedAt
	return nil
}

func (r *layerRepo) Delete(id string) error {
	delete(r.s.Layers, id)
	return nil
}

func (r *layerRepo) CacheDrift(companyID string) ([]*repository.ItemDrift, error) {
	var out []*repository.ItemDrift
	var ids []string
	for id := range r.s.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		item := r.s.Items[id]
		if item.CompanyID != companyID || !item.Stockable() {
			continue
		}
		derived := decimal.Zero
		for _, layer := range r.s.Layers {
			if layer.ItemID == id && !layer.IsDepleted {
				derived = derived.Add(layer.RemainingQty)
			}
		}
		if !item.QuantityOnHand.Equal(derived) {
			out = append(out, &repository.ItemDrift{
				ItemID:      id,
				SKU:         item.SKU,
				CachedQty:   item.QuantityOnHand.String(),
				DerivedQty:  derived.String(),
				Discrepancy: item.QuantityOnHand.Sub(derived).String(),
			})
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(m *entity.InventoryMovement) error {
	if err := r.s.failIf("Movements.Create"); err != nil {
		return err
	}
	cp := *m
	r.s.Movements = append(r.s.Movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.Movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByDoc(docType, docID string) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.Movements {
		if m.DocType == docType && m.DocID == docID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *movementRepo) DeleteByDoc(docType, docID string) error {
	var kept []*entity.InventoryMovement
	for _, m := range r.s.Movements {
		if m.DocType != docType || m.DocID != docID {
			kept = append(kept, m)
		}
	}
	r.s.Movements = kept
	return nil
}

func (r *movementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.Movements {
		if m.ItemID == itemID && inRange(m.Date, from, to) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

func (r *movementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.Movements {
		if m.WarehouseID == warehouseID && inRange(m.Date, from, to) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Diario
// ──────────────────────────────────────────────────────────────────────────────

type journalRepo struct{ s *Store }

func (r *journalRepo) CreateEntry(entry *entity.JournalEntry) error {
	if err := r.s.failIf("Journal.CreateEntry"); err != nil {
		return err
	}
	cp := *entry
	cp.Lines = nil
	for _, l := range entry.Lines {
		lcp := *l
		cp.Lines = append(cp.Lines, &lcp)
	}
	r.s.Entries[entry.ID] = &cp
	return nil
}

func (r *journalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	entry, ok := r.s.Entries[id]
	if !ok {
		return nil, nil
	}
	return copyEntry(entry), nil
}

func (r *journalRepo) GetActiveByDoc(docType, docID string) (*entity.JournalEntry, error) {
	var found *entity.JournalEntry
	for _, entry := range r.s.Entries {
		if entry.DocType != docType || entry.DocID != docID {
			continue
		}
		if entry.ReversedBy != "" || entry.ReversesID != "" {
			continue
		}
		if found == nil || entry.CreatedAt.After(found.CreatedAt) {
			found = entry
		}
	}
	if found == nil {
		return nil, nil
	}
	return copyEntry(found), nil
}

func (r *journalRepo) MarkReversed(entryID, reversedByID string) error {
	entry, ok := r.s.Entries[entryID]
	if !ok {
		return domain.ErrNotFound
	}
	if entry.ReversedBy != "" {
		return domain.ErrEntryReversed
	}
	entry.ReversedBy = reversedByID
	return nil
}

func (r *journalRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, entry := range r.s.Entries {
		if entry.CompanyID == companyID && inRange(entry.Date, from, to) {
			out = append(out, copyEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *journalRepo) Balance(companyID, accountCode string) (*repository.AccountBalance, error) {
	balance := &repository.AccountBalance{
		AccountCode: accountCode,
		Debits:      decimal.Zero,
		Credits:     decimal.Zero,
	}
	found := false
	for _, entry := range r.s.Entries {
		if entry.CompanyID != companyID {
			continue
		}
		for _, l := range entry.Lines {
			if l.AccountCode == accountCode {
				balance.Debits = balance.Debits.Add(l.Debit)
				balance.Credits = balance.Credits.Add(l.Credit)
				found = true
			}
		}
	}
	if !found {
		return nil, nil
	}
	return balance, nil
}

func (r *journalRepo) TrialBalance(companyID string) ([]*repository.AccountBalance, error) {
	byCode := map[string]*repository.AccountBalance{}
	for _, entry := range r.s.Entries {
		if entry.CompanyID != companyID {
			continue
		}
		for _, l := range entry.Lines {
			b, ok := byCode[l.AccountCode]
			if !ok {
				b = &repository.AccountBalance{
					AccountCode: l.AccountCode,
					Debits:      decimal.Zero,
					Credits:     decimal.Zero,
				}
				byCode[l.AccountCode] = b
			}
			b.Debits = b.Debits.Add(l.Debit)
			b.Credits = b.Credits.Add(l.Credit)
		}
	}
	var out []*repository.AccountBalance
	for _, b := range byCode {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func copyEntry(entry *entity.JournalEntry) *entity.JournalEntry {
	cp := *entry
	cp.Lines = nil
	for _, l := range entry.Lines {
		lcp := *l
		cp.Lines = append(cp.Lines, &lcp)
	}
	return &cp
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas de venta
// ──────────────────────────────────────────────────────────────────────────────

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(inv *entity.Invoice) error {
	if err := r.s.failIf("Invoices.Create"); err != nil {
		return err
	}
	cp := *inv
	r.s.Invoices[inv.ID] = &cp
	return nil
}

func (r *invoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if err := r.s.failIf("Invoices.CreateLine"); err != nil {
		return err
	}
	cp := *line
	r.s.InvoiceLines[line.InvoiceID] = append(r.s.InvoiceLines[line.InvoiceID], &cp)
	return nil
}

func (r *invoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.s.Invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	r.s.Invoices[inv.ID] = &cp
	return nil
}

func (r *invoiceRepo) UpdateStatus(id, status string) error {
	inv, ok := r.s.Invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Status = status
	return nil
}

func (r *invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.s.Invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *invoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	for _, l := range r.s.InvoiceLines[invoiceID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *invoiceRepo) DeleteLines(invoiceID string) error {
	delete(r.s.InvoiceLines, invoiceID)
	return nil
}

func (r *invoiceRepo) Delete(id string) error {
	delete(r.s.Invoices, id)
	return nil
}

func (r *invoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.Invoices {
		if inv.CompanyID == companyID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas de compra
// ──────────────────────────────────────────────────────────────────────────────

type billRepo struct{ s *Store }

func (r *billRepo) Create(bill *entity.Bill) error {
	if err := r.s.failIf("Bills.Create"); err != nil {
		return err
	}
	cp := *bill
	r.s.Bills[bill.ID] = &cp
	return nil
}

func (r *billRepo) CreateLine(line *entity.BillLine) error {
	if err := r.s.failIf("Bills.CreateLine"); err != nil {
		return err
	}
	cp := *line
	r.s.BillLines[line.BillID] = append(r.s.BillLines[line.BillID], &cp)
	return nil
}

func (r *billRepo) Update(bill *entity.Bill) error {
	if _, ok := r.s.Bills[bill.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *bill
	r.s.Bills[bill.ID] = &cp
	return nil
}

func (r *billRepo) UpdateStatus(id, status string) error {
	bill, ok := r.s.Bills[id]
	if !ok {
		return domain.ErrNotFound
	}
	bill.Status = status
	return nil
}

func (r *billRepo) UpdateApproval(id, approvalStatus string) error {
	bill, ok := r.s.Bills[id]
	if !ok {
		return domain.ErrNotFound
	}
	bill.ApprovalStatus = approvalStatus
	return nil
}

func (r *billRepo) GetByID(id string) (*entity.Bill, error) {
	bill, ok := r.s.Bills[id]
	if !ok {
		return nil, nil
	}
	cp := *bill
	return &cp, nil
}

func (r *billRepo) GetLines(billID string) ([]*entity.BillLine, error) {
	var out []*entity.BillLine
	for _, l := range r.s.BillLines[billID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *billRepo) DeleteLines(billID string) error {
	delete(r.s.BillLines, billID)
	return nil
}

func (r *billRepo) Delete(id string) error {
	delete(r.s.Bills, id)
	return nil
}

func (r *billRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Bill, error) {
	var out []*entity.Bill
	for _, bill := range r.s.Bills {
		if bill.CompanyID == companyID {
			cp := *bill
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

type poRepo struct{ s *Store }

func (r *poRepo) Create(po *entity.PurchaseOrder) error {
	cp := *po
	r.s.POs[po.ID] = &cp
	return nil
}

func (r *poRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	cp := *line
	r.s.POLines[line.PurchaseOrderID] = append(r.s.POLines[line.PurchaseOrderID], &cp)
	return nil
}

func (r *poRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	po, ok := r.s.POs[id]
	if !ok {
		return nil, nil
	}
	cp := *po
	return &cp, nil
}

func (r *poRepo) GetLines(poID string) ([]*entity.PurchaseOrderLine, error) {
	var out []*entity.PurchaseOrderLine
	for _, l := range r.s.POLines[poID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *poRepo) UpdateStatus(id, status string) error {
	po, ok := r.s.POs[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	return nil
}

func (r *poRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, po := range r.s.POs {
		if po.CompanyID == companyID {
			cp := *po
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Producción
// ──────────────────────────────────────────────────────────────────────────────

type runRepo struct{ s *Store }

func (r *runRepo) Create(run *entity.ProductionRun) error {
	if err := r.s.failIf("Runs.Create"); err != nil {
		return err
	}
	cp := *run
	r.s.Runs[run.ID] = &cp
	return nil
}

func (r *runRepo) CreateInput(input *entity.ProductionInput) error {
	cp := *input
	r.s.RunInputs[input.ProductionRunID] = append(r.s.RunInputs[input.ProductionRunID], &cp)
	return nil
}

func (r *runRepo) GetByID(id string) (*entity.ProductionRun, error) {
	run, ok := r.s.Runs[id]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}

func (r *runRepo) GetInputs(runID string) ([]*entity.ProductionInput, error) {
	var out []*entity.ProductionInput
	for _, l := range r.s.RunInputs[runID] {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r *runRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionRun, error) {
	var out []*entity.ProductionRun
	for _, run := range r.s.Runs {
		if run.CompanyID == companyID {
			cp := *run
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tickets y activos
// ──────────────────────────────────────────────────────────────────────────────

type ticketRepo struct{ s *Store }

func (r *ticketRepo) CreateTicket(t *entity.ServiceTicket) error {
	if err := r.s.failIf("Tickets.CreateTicket"); err != nil {
		return err
	}
	for _, existing := range r.s.Tickets {
		if existing.InvoiceID == t.InvoiceID {
			return domain.ErrDuplicate
		}
	}
	cp := *t
	r.s.Tickets[t.ID] = &cp
	return nil
}

func (r *ticketRepo) CreateAsset(a *entity.CustomerAsset) error {
	if err := r.s.failIf("Tickets.CreateAsset"); err != nil {
		return err
	}
	cp := *a
	r.s.Assets = append(r.s.Assets, &cp)
	return nil
}

func (r *ticketRepo) GetTicketByID(id string) (*entity.ServiceTicket, error) {
	t, ok := r.s.Tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *ticketRepo) GetTicketByInvoice(invoiceID string) (*entity.ServiceTicket, error) {
	for _, t := range r.s.Tickets {
		if t.InvoiceID == invoiceID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ticketRepo) ListAssetsByTicket(ticketID string) ([]*entity.CustomerAsset, error) {
	var out []*entity.CustomerAsset
	for _, a := range r.s.Assets {
		if a.TicketID == ticketID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ticketRepo) ListTicketsByCompany(companyID string, limit, offset int) ([]*entity.ServiceTicket, error) {
	var out []*entity.ServiceTicket
	for _, t := range r.s.Tickets {
		if t.CompanyID == companyID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *ticketRepo) DeleteByInvoice(invoiceID string) error {
	var ticketID string
	for id, t := range r.s.Tickets {
		if t.InvoiceID == invoiceID {
			ticketID = id
		}
	}
	if ticketID == "" {
		return nil
	}
	var kept []*entity.CustomerAsset
	for _, a := range r.s.Assets {
		if a.TicketID != ticketID {
			kept = append(kept, a)
		}
	}
	r.s.Assets = kept
	delete(r.s.Tickets, ticketID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Reset transaccional
// ──────────────────────────────────────────────────────────────────────────────

type resetRepo struct{ s *Store }

func (r *resetRepo) DeleteTransactionalData(companyID string) error {
	if err := r.s.failIf("Reset.DeleteTransactionalData"); err != nil {
		return err
	}
	var keptAssets []*entity.CustomerAsset
	for _, a := range r.s.Assets {
		if a.CompanyID != companyID {
			keptAssets = append(keptAssets, a)
		}
	}
	r.s.Assets = keptAssets
	for id, t := range r.s.Tickets {
		if t.CompanyID == companyID {
			delete(r.s.Tickets, id)
		}
	}
	for id, e := range r.s.Entries {
		if e.CompanyID == companyID {
			delete(r.s.Entries, id)
		}
	}
	var keptMovs []*entity.InventoryMovement
	for _, m := range r.s.Movements {
		if m.CompanyID != companyID {
			keptMovs = append(keptMovs, m)
		}
	}
	r.s.Movements = keptMovs
	for id, l := range r.s.Layers {
		if l.CompanyID == companyID {
			delete(r.s.Layers, id)
		}
	}
	for id, inv := range r.s.Invoices {
		if inv.CompanyID == companyID {
			delete(r.s.InvoiceLines, id)
			delete(r.s.Invoices, id)
		}
	}
	for id, b := range r.s.Bills {
		if b.CompanyID == companyID {
			delete(r.s.BillLines, id)
			delete(r.s.Bills, id)
		}
	}
	for id, po := range r.s.POs {
		if po.CompanyID == companyID {
			delete(r.s.POLines, id)
			delete(r.s.POs, id)
		}
	}
	for id, run := range r.s.Runs {
		if run.CompanyID == companyID {
			delete(r.s.RunInputs, id)
			delete(r.s.Runs, id)
		}
	}
	for _, item := range r.s.Items {
		if item.CompanyID == companyID {
			item.QuantityOnHand = decimal.Zero
			item.AverageCost = decimal.Zero
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Maestros
// ──────────────────────────────────────────────────────────────────────────────

type warehouseRepo struct{ s *Store }

func (r *warehouseRepo) Create(w *entity.Warehouse) error {
	cp := *w
	r.s.Warehouses[w.ID] = &cp
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	w, ok := r.s.Warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *warehouseRepo) Update(w *entity.Warehouse) error {
	if _, ok := r.s.Warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *w
	r.s.Warehouses[w.ID] = &cp
	return nil
}

func (r *warehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.s.Warehouses {
		if w.CompanyID == companyID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *warehouseRepo) Delete(id string) error {
	delete(r.s.Warehouses, id)
	return nil
}

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.s.Customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.s.Customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) Update(c *entity.Customer) error {
	if _, ok := r.s.Customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.Customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.s.Customers {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *customerRepo) Delete(id string) error {
	delete(r.s.Customers, id)
	return nil
}

type vendorRepo struct{ s *Store }

func (r *vendorRepo) Create(v *entity.Vendor) error {
	cp := *v
	r.s.Vendors[v.ID] = &cp
	return nil
}

func (r *vendorRepo) GetByID(id string) (*entity.Vendor, error) {
	v, ok := r.s.Vendors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *vendorRepo) Update(v *entity.Vendor) error {
	if _, ok := r.s.Vendors[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	r.s.Vendors[v.ID] = &cp
	return nil
}

func (r *vendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	var out []*entity.Vendor
	for _, v := range r.s.Vendors {
		if v.CompanyID == companyID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *vendorRepo) Delete(id string) error {
	delete(r.s.Vendors, id)
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(u *entity.User) error {
	for _, existing := range r.s.Users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range r.s.Users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(u *entity.User) error {
	if _, ok := r.s.Users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(c *entity.Company) error {
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

func (r *companyRepo) GetByID(id string) (*entity.Company, error) {
	c, ok := r.s.Companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *companyRepo) Update(c *entity.Company) error {
	if _, ok := r.s.Companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

func (r *companyRepo) List(limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.s.Companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *companyRepo) HasActiveModule(companyID, moduleName string) (bool, error) {
	now := time.Now()
	for _, m := range r.s.Modules {
		if m.CompanyID == companyID && m.ModuleName == moduleName && m.IsActive {
			if m.ExpiresAt == nil || m.ExpiresAt.After(now) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *companyRepo) ListModules(companyID string) ([]*entity.CompanyModule, error) {
	var out []*entity.CompanyModule
	for _, m := range r.s.Modules {
		if m.CompanyID == companyID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleName < out[j].ModuleName })
	return out, nil
}

func (r *companyRepo) ActivateModule(module *entity.CompanyModule) error {
	for _, m := range r.s.Modules {
		if m.CompanyID == module.CompanyID && m.ModuleName == module.ModuleName {
			m.IsActive = module.IsActive
			m.ActivatedAt = module.ActivatedAt
			m.ExpiresAt = module.ExpiresAt
			return nil
		}
	}
	cp := *module
	r.s.Modules = append(r.s.Modules, &cp)
	return nil
}

type accountRepo struct{ s *Store }

func (r *accountRepo) Create(a *entity.Account) error {
	for _, existing := range r.s.Accounts {
		if existing.CompanyID == a.CompanyID && existing.Code == a.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *a
	r.s.Accounts[a.ID] = &cp
	return nil
}

func (r *accountRepo) GetByCode(companyID, code string) (*entity.Account, error) {
	for _, a := range r.s.Accounts {
		if a.CompanyID == companyID && a.Code == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) ListByCompany(companyID string) ([]*entity.Account, error) {
	var out []*entity.Account
	for _, a := range r.s.Accounts {
		if a.CompanyID == companyID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *accountRepo) Update(a *entity.Account) error {
	if _, ok := r.s.Accounts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.s.Accounts[a.ID] = &cp
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Utilidades
// ──────────────────────────────────────────────────────────────────────────────

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
