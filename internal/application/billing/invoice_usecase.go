package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceUseCase es el escritor de facturas de venta: en UNA transacción
// descuenta inventario por FIFO, calcula totales, persiste el documento,
// publica el asiento contable y, si alguna línea vende un ítem con
// instalación, crea el ticket de servicio y los activos del cliente.
// Si cualquier paso falla, nada persiste.
type InvoiceUseCase struct {
	txRunner      repository.TxRunner
	invoiceRepo   repository.InvoiceRepository
	itemRepo      repository.ItemRepository
	customerRepo  repository.CustomerRepository
	warehouseRepo repository.WarehouseRepository
	ticketRepo    repository.TicketRepository
	stock         *inventory.StockLedgerUseCase
	poster        *accounting.Poster
}

func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	warehouseRepo repository.WarehouseRepository,
	ticketRepo repository.TicketRepository,
	stock *inventory.StockLedgerUseCase,
	poster *accounting.Poster,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:      txRunner,
		invoiceRepo:   invoiceRepo,
		itemRepo:      itemRepo,
		customerRepo:  customerRepo,
		warehouseRepo: warehouseRepo,
		ticketRepo:    ticketRepo,
		stock:         stock,
		poster:        poster,
	}
}

// invoiceLinePlan línea validada con su ítem resuelto, lista para aplicar.
type invoiceLinePlan struct {
	item      *entity.Item
	quantity  decimal.Decimal
	unitPrice decimal.Decimal
}

// Create valida fuera de transacción (cliente, bodega, ítems de la empresa)
// y dentro de ella aplica: salidas FIFO, cabecera + líneas, asiento y ticket.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil || customer.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	plans, err := uc.resolveLines(companyID, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &entity.Invoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CustomerID:  in.CustomerID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Date:        now,
		Status:      entity.DocStatusOpen,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}
	if invoice.Number == "" {
		invoice.Number = docNumber("FV", now)
	}

	var resp *dto.InvoiceResponse
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		lines, err := uc.applyInTx(r, invoice, plans, userID, now, false)
		if err != nil {
			return err
		}
		resp = uc.toResponse(invoice, lines)
		// Ticket de instalación: máximo uno por factura, un activo por
		// línea calificada (la cantidad de la línea no multiplica activos).
		ticketID, err := uc.createInstallationTicketInTx(r, invoice, lines, plans, userID, now)
		if err != nil {
			return err
		}
		resp.TicketID = ticketID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update reemplaza el juego completo de líneas de una factura OPEN: reversa
// exactamente los efectos originales (inventario, asiento, ticket) y aplica
// los nuevos, todo en una transacción.
func (uc *InvoiceUseCase) Update(ctx context.Context, companyID, userID, invoiceID string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := uc.getOwned(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !entity.DocStatusEditable(invoice.Status) {
		return nil, domain.ErrDocumentLocked
	}
	plans, err := uc.resolveLines(companyID, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var resp *dto.InvoiceResponse
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if err := uc.reverseEffectsInTx(r, invoice, userID, now); err != nil {
			return err
		}
		if err := r.Invoices.DeleteLines(invoice.ID); err != nil {
			return err
		}
		invoice.Notes = in.Notes
		invoice.UpdatedAt = now
		lines, err := uc.applyInTx(r, invoice, plans, userID, now, true)
		if err != nil {
			return err
		}
		resp = uc.toResponse(invoice, lines)
		ticketID, err := uc.createInstallationTicketInTx(r, invoice, lines, plans, userID, now)
		if err != nil {
			return err
		}
		resp.TicketID = ticketID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete elimina una factura OPEN reversando todos sus efectos: el stock
// vuelve a sus capas originales, el asiento se reversa con asiento espejo y
// el ticket de instalación (con sus activos) se elimina.
func (uc *InvoiceUseCase) Delete(ctx context.Context, companyID, userID, invoiceID string) error {
	invoice, err := uc.getOwned(companyID, invoiceID)
	if err != nil {
		return err
	}
	if !entity.DocStatusEditable(invoice.Status) {
		return domain.ErrDocumentLocked
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if err := uc.reverseEffectsInTx(r, invoice, userID, now); err != nil {
			return err
		}
		if err := r.Invoices.DeleteLines(invoice.ID); err != nil {
			return err
		}
		return r.Invoices.Delete(invoice.ID)
	})
}

// Get retorna una factura con líneas y su ticket asociado.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.getOwned(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.invoiceRepo.GetLines(invoice.ID)
	if err != nil {
		return nil, err
	}
	resp := uc.toResponse(invoice, lines)
	if ticket, err := uc.ticketRepo.GetTicketByInvoice(invoice.ID); err == nil && ticket != nil {
		resp.TicketID = ticket.ID
	}
	return resp, nil
}

// List lista las facturas de la empresa.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.InvoiceListResponse{
		Items: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, inv := range invoices {
		resp.Items = append(resp.Items, *uc.toResponse(inv, nil))
	}
	return resp, nil
}

// applyInTx aplica los efectos de la factura: salidas FIFO por línea
// (acumulando COGS real), totales, cabecera + líneas y asiento contable.
// Con update=true la cabecera se actualiza en vez de crearse (ediciones).
func (uc *InvoiceUseCase) applyInTx(r *repository.Tx, invoice *entity.Invoice, plans []invoiceLinePlan, userID string, now time.Time, update bool) ([]*entity.InvoiceLine, error) {
	netTotal, taxTotal, cogsTotal := decimal.Zero, decimal.Zero, decimal.Zero
	cogsByAccount := make(map[string]decimal.Decimal)
	lines := make([]*entity.InvoiceLine, 0, len(plans))

	for _, p := range plans {
		subtotal := p.quantity.Mul(p.unitPrice)
		taxAmount := subtotal.Mul(p.item.TaxRate)
		line := &entity.InvoiceLine{
			ID:        uuid.New().String(),
			InvoiceID: invoice.ID,
			ItemID:    p.item.ID,
			Quantity:  p.quantity,
			UnitPrice: p.unitPrice,
			TaxRate:   p.item.TaxRate,
			Subtotal:  subtotal,
			TaxAmount: taxAmount,
		}
		lines = append(lines, line)
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(taxAmount)

		if p.item.Stockable() {
			cost, err := uc.stock.IssueInTx(r, p.item, inventory.IssueInput{
				WarehouseID: invoice.WarehouseID,
				Quantity:    p.quantity,
				DocType:     entity.DocTypeInvoice,
				DocID:       invoice.ID,
				UserID:      userID,
				Now:         now,
			})
			if err != nil {
				return nil, err
			}
			cogsTotal = cogsTotal.Add(cost)
			acct := entity.InventoryAccountFor(p.item.Type)
			cogsByAccount[acct] = cogsByAccount[acct].Add(cost)
		}
	}

	invoice.NetTotal = netTotal
	invoice.TaxTotal = taxTotal
	invoice.GrandTotal = netTotal.Add(taxTotal)
	invoice.COGSTotal = cogsTotal

	if update {
		if err := r.Invoices.Update(invoice); err != nil {
			return nil, err
		}
	} else {
		if err := r.Invoices.Create(invoice); err != nil {
			return nil, err
		}
	}
	for _, line := range lines {
		if err := r.Invoices.CreateLine(line); err != nil {
			return nil, err
		}
	}

	// Asiento de venta: por cobrar contra ingresos + IVA, y costo de ventas
	// contra inventario (agregado por cuenta PUC del tipo de ítem).
	jlines := []*entity.JournalLine{
		{AccountCode: entity.AccountReceivable, Debit: invoice.GrandTotal, Credit: decimal.Zero},
		{AccountCode: entity.AccountSalesIncome, Debit: decimal.Zero, Credit: netTotal},
	}
	if taxTotal.GreaterThan(decimal.Zero) {
		jlines = append(jlines, &entity.JournalLine{AccountCode: entity.AccountTaxPayable, Debit: decimal.Zero, Credit: taxTotal})
	}
	if cogsTotal.GreaterThan(decimal.Zero) {
		jlines = append(jlines, &entity.JournalLine{AccountCode: entity.AccountCOGS, Debit: cogsTotal, Credit: decimal.Zero})
		for acct, cost := range cogsByAccount {
			jlines = append(jlines, &entity.JournalLine{AccountCode: acct, Debit: decimal.Zero, Credit: cost})
		}
	}
	desc := fmt.Sprintf("Factura de venta %s", invoice.Number)
	if _, err := uc.poster.PostInTx(r, invoice.CompanyID, userID, entity.DocTypeInvoice, invoice.ID, desc, now, jlines); err != nil {
		return nil, err
	}
	return lines, nil
}

// reverseEffectsInTx deshace inventario, asiento y ticket de la factura.
func (uc *InvoiceUseCase) reverseEffectsInTx(r *repository.Tx, invoice *entity.Invoice, userID string, now time.Time) error {
	if err := uc.stock.ReverseDocInTx(r, entity.DocTypeInvoice, invoice.ID); err != nil {
		return err
	}
	desc := fmt.Sprintf("Reversa factura %s", invoice.Number)
	if err := uc.poster.ReverseDocInTx(r, userID, entity.DocTypeInvoice, invoice.ID, desc, now); err != nil {
		return err
	}
	return r.Tickets.DeleteByInvoice(invoice.ID)
}

// createInstallationTicketInTx crea el ticket de servicio si alguna línea
// vende un ítem con requires_installation. Retorna el ID del ticket o "".
func (uc *InvoiceUseCase) createInstallationTicketInTx(r *repository.Tx, invoice *entity.Invoice, lines []*entity.InvoiceLine, plans []invoiceLinePlan, userID string, now time.Time) (string, error) {
	var ticket *entity.ServiceTicket
	for i, p := range plans {
		if !p.item.RequiresInstallation {
			continue
		}
		if ticket == nil {
			ticket = &entity.ServiceTicket{
				ID:         uuid.New().String(),
				CompanyID:  invoice.CompanyID,
				CustomerID: invoice.CustomerID,
				InvoiceID:  invoice.ID,
				Number:     docNumber("TK", now),
				Status:     entity.TicketStatusOpen,
				CreatedAt:  now,
				UpdatedAt:  now,
				CreatedBy:  userID,
			}
			if err := r.Tickets.CreateTicket(ticket); err != nil {
				return "", err
			}
		}
		asset := &entity.CustomerAsset{
			ID:            uuid.New().String(),
			CompanyID:     invoice.CompanyID,
			CustomerID:    invoice.CustomerID,
			TicketID:      ticket.ID,
			InvoiceLineID: lines[i].ID,
			ItemID:        p.item.ID,
			Status:        entity.AssetStatusPendingInstallation,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Tickets.CreateAsset(asset); err != nil {
			return "", err
		}
	}
	if ticket == nil {
		return "", nil
	}
	return ticket.ID, nil
}

func (uc *InvoiceUseCase) resolveLines(companyID string, items []dto.InvoiceItemRequest) ([]invoiceLinePlan, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	plans := make([]invoiceLinePlan, 0, len(items))
	for _, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(it.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		price := it.UnitPrice
		if price.IsZero() {
			price = item.Price
		}
		if price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		plans = append(plans, invoiceLinePlan{item: item, quantity: it.Quantity, unitPrice: price})
	}
	return plans, nil
}

func (uc *InvoiceUseCase) getOwned(companyID, invoiceID string) (*entity.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil || invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return invoice, nil
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		CompanyID:   inv.CompanyID,
		CustomerID:  inv.CustomerID,
		WarehouseID: inv.WarehouseID,
		Number:      inv.Number,
		Date:        inv.Date.Format("2006-01-02"),
		Status:      inv.Status,
		NetTotal:    inv.NetTotal,
		TaxTotal:    inv.TaxTotal,
		GrandTotal:  inv.GrandTotal,
		COGSTotal:   inv.COGSTotal,
		Lines:       make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
			Subtotal:  l.Subtotal,
			TaxAmount: l.TaxAmount,
		})
	}
	return resp
}

// docNumber genera un consecutivo legible con prefijo y fecha.
func docNumber(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, date.Format("20060102"), uuid.New().String()[:8])
}
