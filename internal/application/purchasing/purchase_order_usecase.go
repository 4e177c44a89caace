package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderUseCase gestiona órdenes de compra. Una OC no mueve
// inventario ni contabilidad: es el documento previo que una factura de
// compra puede referenciar.
type PurchaseOrderUseCase struct {
	txRunner      repository.TxRunner
	poRepo        repository.PurchaseOrderRepository
	itemRepo      repository.ItemRepository
	vendorRepo    repository.VendorRepository
	warehouseRepo repository.WarehouseRepository
}

func NewPurchaseOrderUseCase(
	txRunner repository.TxRunner,
	poRepo repository.PurchaseOrderRepository,
	itemRepo repository.ItemRepository,
	vendorRepo repository.VendorRepository,
	warehouseRepo repository.WarehouseRepository,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		txRunner:      txRunner,
		poRepo:        poRepo,
		itemRepo:      itemRepo,
		vendorRepo:    vendorRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create registra la orden de compra con sus líneas.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	vendor, err := uc.vendorRepo.GetByID(in.VendorID)
	if err != nil || vendor == nil || vendor.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		VendorID:    in.VendorID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Date:        now,
		Status:      entity.DocStatusOpen,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   userID,
	}
	if po.Number == "" {
		po.Number = fmt.Sprintf("OC-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
	}

	lines := make([]*entity.PurchaseOrderLine, 0, len(in.Items))
	total := decimal.Zero
	for _, it := range in.Items {
		if !it.Quantity.GreaterThan(decimal.Zero) || it.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(it.ItemID)
		if err != nil || item == nil || item.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		subtotal := it.Quantity.Mul(it.UnitCost)
		lines = append(lines, &entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ItemID:          it.ItemID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Subtotal:        subtotal,
		})
		total = total.Add(subtotal)
	}
	po.Total = total

	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if err := r.PurchaseOrders.Create(po); err != nil {
			return err
		}
		for _, line := range lines {
			if err := r.PurchaseOrders.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(po, lines), nil
}

// Get retorna la orden con líneas.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, companyID, poID string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(poID)
	if err != nil || po == nil {
		return nil, domain.ErrNotFound
	}
	if po.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.poRepo.GetLines(po.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(po, lines), nil
}

// UpdateStatus cierra o cancela la orden.
func (uc *PurchaseOrderUseCase) UpdateStatus(ctx context.Context, companyID, poID, status string) error {
	if status != entity.DocStatusClosed && status != entity.DocStatusCancelled && status != entity.DocStatusOpen {
		return domain.ErrInvalidInput
	}
	po, err := uc.poRepo.GetByID(poID)
	if err != nil || po == nil {
		return domain.ErrNotFound
	}
	if po.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.poRepo.UpdateStatus(poID, status)
}

// List lista las órdenes de la empresa.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	page.DefaultPage()
	pos, err := uc.poRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(pos)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, po := range pos {
		resp.Items = append(resp.Items, *uc.toResponse(po, nil))
	}
	return resp, nil
}

func (uc *PurchaseOrderUseCase) toResponse(po *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:          po.ID,
		CompanyID:   po.CompanyID,
		VendorID:    po.VendorID,
		WarehouseID: po.WarehouseID,
		Number:      po.Number,
		Date:        po.Date.Format("2006-01-02"),
		Status:      po.Status,
		Total:       po.Total,
		Lines:       make([]dto.BillLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.BillLineResponse{
			ID:       l.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
			Subtotal: l.Subtotal,
		})
	}
	return resp
}
