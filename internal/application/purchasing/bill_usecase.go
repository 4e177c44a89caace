package purchasing

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

// BillUseCase es el escritor de facturas de compra: en UNA transacción crea
// una capa de inventario por línea al costo de compra, persiste el documento
// y publica el asiento (inventario + IVA descontable contra proveedores).
// La factura nace PENDING y solo un admin la aprueba o rechaza.
type BillUseCase struct {
	txRunner      repository.TxRunner
	billRepo      repository.BillRepository
	itemRepo      repository.ItemRepository
	vendorRepo    repository.VendorRepository
	warehouseRepo repository.WarehouseRepository
	stock         *inventory.StockLedgerUseCase
	poster        *accounting.Poster
}

func NewBillUseCase(
	txRunner repository.TxRunner,
	billRepo repository.BillRepository,
	itemRepo repository.ItemRepository,
	vendorRepo repository.VendorRepository,
	warehouseRepo repository.WarehouseRepository,
	stock *inventory.StockLedgerUseCase,
	poster *accounting.Poster,
) *BillUseCase {
	return &BillUseCase{
		txRunner:      txRunner,
		billRepo:      billRepo,
		itemRepo:      itemRepo,
		vendorRepo:    vendorRepo,
		warehouseRepo: warehouseRepo,
		stock:         stock,
		poster:        poster,
	}
}

type billLinePlan struct {
	item     *entity.Item
	quantity decimal.Decimal
	unitCost decimal.Decimal
}

// Create registra la compra: capas nuevas por línea, documento y asiento.
func (uc *BillUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	vendor, err := uc.vendorRepo.GetByID(in.VendorID)
	if err != nil || vendor == nil || vendor.CompanyID != companyID {
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
	bill := &entity.Bill{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		VendorID:        in.VendorID,
		WarehouseID:     in.WarehouseID,
		PurchaseOrderID: in.PurchaseOrderID,
		Number:          in.Number,
		Date:            now,
		Status:          entity.DocStatusOpen,
		ApprovalStatus:  entity.ApprovalPending,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       userID,
	}
	if bill.Number == "" {
		bill.Number = fmt.Sprintf("FC-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
	}

	var resp *dto.BillResponse
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		lines, err := uc.applyInTx(r, bill, plans, userID, now, false)
		if err != nil {
			return err
		}
		resp = uc.toResponse(bill, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update reemplaza el juego completo de líneas de una compra OPEN: reversa
// las capas creadas (solo si nadie las consumió, si no ErrConflict) y el
// asiento, y reaplica los efectos nuevos.
func (uc *BillUseCase) Update(ctx context.Context, companyID, userID, billID string, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	bill, err := uc.getOwned(companyID, billID)
	if err != nil {
		return nil, err
	}
	if !entity.DocStatusEditable(bill.Status) {
		return nil, domain.ErrDocumentLocked
	}
	plans, err := uc.resolveLines(companyID, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var resp *dto.BillResponse
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if err := uc.reverseEffectsInTx(r, bill, userID, now); err != nil {
			return err
		}
		if err := r.Bills.DeleteLines(bill.ID); err != nil {
			return err
		}
		bill.Notes = in.Notes
		bill.UpdatedAt = now
		lines, err := uc.applyInTx(r, bill, plans, userID, now, true)
		if err != nil {
			return err
		}
		resp = uc.toResponse(bill, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete elimina una compra OPEN reversando todos sus efectos.
func (uc *BillUseCase) Delete(ctx context.Context, companyID, userID, billID string) error {
	bill, err := uc.getOwned(companyID, billID)
	if err != nil {
		return err
	}
	if !entity.DocStatusEditable(bill.Status) {
		return domain.ErrDocumentLocked
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if err := uc.reverseEffectsInTx(r, bill, userID, now); err != nil {
			return err
		}
		if err := r.Bills.DeleteLines(bill.ID); err != nil {
			return err
		}
		return r.Bills.Delete(bill.ID)
	})
}

// Approve transiciona PENDING → APPROVED/REJECTED. Solo rol admin; la
// transición es de una sola vía.
func (uc *BillUseCase) Approve(ctx context.Context, companyID, role, billID string, in dto.ApproveBillRequest) (*dto.BillResponse, error) {
	if role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Status != entity.ApprovalApproved && in.Status != entity.ApprovalRejected {
		return nil, domain.ErrInvalidInput
	}
	bill, err := uc.getOwned(companyID, billID)
	if err != nil {
		return nil, err
	}
	if bill.ApprovalStatus != entity.ApprovalPending {
		return nil, domain.ErrConflict
	}
	if err := uc.billRepo.UpdateApproval(bill.ID, in.Status); err != nil {
		return nil, err
	}
	bill.ApprovalStatus = in.Status
	lines, err := uc.billRepo.GetLines(bill.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(bill, lines), nil
}

// Get retorna una compra con líneas.
func (uc *BillUseCase) Get(ctx context.Context, companyID, billID string) (*dto.BillResponse, error) {
	bill, err := uc.getOwned(companyID, billID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.billRepo.GetLines(bill.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(bill, lines), nil
}

// List lista las compras de la empresa.
func (uc *BillUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.BillListResponse, error) {
	page.DefaultPage()
	bills, err := uc.billRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.BillListResponse{
		Items: make([]dto.BillResponse, 0, len(bills)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, b := range bills {
		resp.Items = append(resp.Items, *uc.toResponse(b, nil))
	}
	return resp, nil
}

// applyInTx recibe stock por línea (una capa nueva al costo de compra),
// persiste documento + líneas y publica el asiento de compra.
func (uc *BillUseCase) applyInTx(r *repository.Tx, bill *entity.Bill, plans []billLinePlan, userID string, now time.Time, update bool) ([]*entity.BillLine, error) {
	netTotal, taxTotal := decimal.Zero, decimal.Zero
	inventoryByAccount := make(map[string]decimal.Decimal)
	lines := make([]*entity.BillLine, 0, len(plans))

	for _, p := range plans {
		subtotal := p.quantity.Mul(p.unitCost)
		taxAmount := subtotal.Mul(p.item.TaxRate)
		line := &entity.BillLine{
			ID:        uuid.New().String(),
			BillID:    bill.ID,
			ItemID:    p.item.ID,
			Quantity:  p.quantity,
			UnitCost:  p.unitCost,
			TaxRate:   p.item.TaxRate,
			Subtotal:  subtotal,
			TaxAmount: taxAmount,
		}
		lines = append(lines, line)
		netTotal = netTotal.Add(subtotal)
		taxTotal = taxTotal.Add(taxAmount)

		if p.item.Stockable() {
			_, _, err := uc.stock.ReceiveInTx(r, p.item, inventory.ReceiveInput{
				WarehouseID: bill.WarehouseID,
				Quantity:    p.quantity,
				UnitCost:    p.unitCost,
				DocType:     entity.DocTypeBill,
				DocID:       bill.ID,
				UserID:      userID,
				Now:         now,
			})
			if err != nil {
				return nil, err
			}
			acct := entity.InventoryAccountFor(p.item.Type)
			inventoryByAccount[acct] = inventoryByAccount[acct].Add(subtotal)
		} else {
			// Servicios comprados van directo al gasto.
			inventoryByAccount[entity.AccountCOGS] = inventoryByAccount[entity.AccountCOGS].Add(subtotal)
		}
	}

	bill.NetTotal = netTotal
	bill.TaxTotal = taxTotal
	bill.GrandTotal = netTotal.Add(taxTotal)

	if update {
		if err := r.Bills.Update(bill); err != nil {
			return nil, err
		}
	} else {
		if err := r.Bills.Create(bill); err != nil {
			return nil, err
		}
	}
	for _, line := range lines {
		if err := r.Bills.CreateLine(line); err != nil {
			return nil, err
		}
	}

	// Asiento de compra: inventario (por cuenta PUC) + IVA descontable
	// contra proveedores.
	jlines := make([]*entity.JournalLine, 0, len(inventoryByAccount)+2)
	for acct, amount := range inventoryByAccount {
		jlines = append(jlines, &entity.JournalLine{AccountCode: acct, Debit: amount, Credit: decimal.Zero})
	}
	if taxTotal.GreaterThan(decimal.Zero) {
		jlines = append(jlines, &entity.JournalLine{AccountCode: entity.AccountTaxPayable, Debit: taxTotal, Credit: decimal.Zero})
	}
	jlines = append(jlines, &entity.JournalLine{AccountCode: entity.AccountPayable, Debit: decimal.Zero, Credit: bill.GrandTotal})

	desc := fmt.Sprintf("Factura de compra %s", bill.Number)
	if _, err := uc.poster.PostInTx(r, bill.CompanyID, userID, entity.DocTypeBill, bill.ID, desc, now, jlines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (uc *BillUseCase) reverseEffectsInTx(r *repository.Tx, bill *entity.Bill, userID string, now time.Time) error {
	if err := uc.stock.ReverseDocInTx(r, entity.DocTypeBill, bill.ID); err != nil {
		return err
	}
	desc := fmt.Sprintf("Reversa compra %s", bill.Number)
	return uc.poster.ReverseDocInTx(r, userID, entity.DocTypeBill, bill.ID, desc, now)
}

func (uc *BillUseCase) resolveLines(companyID string, items []dto.BillItemRequest) ([]billLinePlan, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	plans := make([]billLinePlan, 0, len(items))
	for _, it := range items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(it.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		plans = append(plans, billLinePlan{item: item, quantity: it.Quantity, unitCost: it.UnitCost})
	}
	return plans, nil
}

func (uc *BillUseCase) getOwned(companyID, billID string) (*entity.Bill, error) {
	bill, err := uc.billRepo.GetByID(billID)
	if err != nil || bill == nil {
		return nil, domain.ErrNotFound
	}
	if bill.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return bill, nil
}

func (uc *BillUseCase) toResponse(b *entity.Bill, lines []*entity.BillLine) *dto.BillResponse {
	resp := &dto.BillResponse{
		ID:              b.ID,
		CompanyID:       b.CompanyID,
		VendorID:        b.VendorID,
		WarehouseID:     b.WarehouseID,
		PurchaseOrderID: b.PurchaseOrderID,
		Number:          b.Number,
		Date:            b.Date.Format("2006-01-02"),
		Status:          b.Status,
		ApprovalStatus:  b.ApprovalStatus,
		NetTotal:        b.NetTotal,
		TaxTotal:        b.TaxTotal,
		GrandTotal:      b.GrandTotal,
		Lines:           make([]dto.BillLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.BillLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			TaxRate:   l.TaxRate,
			Subtotal:  l.Subtotal,
			TaxAmount: l.TaxAmount,
		})
	}
	return resp
}
