package manufacturing

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

// ProductionRunUseCase es el escritor de órdenes de producción: en UNA
// transacción consume los insumos por FIFO, crea la capa del producto
// terminado al costo acumulado real de los consumos (costo unitario =
// total / cantidad producida) y publica el asiento que mueve el valor entre
// cuentas de inventario. El asiento cuadra por construcción: débito y
// crédito son el mismo costo total.
type ProductionRunUseCase struct {
	txRunner      repository.TxRunner
	runRepo       repository.ProductionRunRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	stock         *inventory.StockLedgerUseCase
	poster        *accounting.Poster
}

func NewProductionRunUseCase(
	txRunner repository.TxRunner,
	runRepo repository.ProductionRunRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	stock *inventory.StockLedgerUseCase,
	poster *accounting.Poster,
) *ProductionRunUseCase {
	return &ProductionRunUseCase{
		txRunner:      txRunner,
		runRepo:       runRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		stock:         stock,
		poster:        poster,
	}
}

// Create ejecuta la orden de producción completa.
func (uc *ProductionRunUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateProductionRunRequest) (*dto.ProductionRunResponse, error) {
	if !in.OutputQty.GreaterThan(decimal.Zero) || len(in.Inputs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	output, err := uc.itemRepo.GetByID(in.OutputItemID)
	if err != nil || output == nil || output.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !output.Stockable() {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil || wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	type inputPlan struct {
		item     *entity.Item
		quantity decimal.Decimal
	}
	plans := make([]inputPlan, 0, len(in.Inputs))
	for _, inp := range in.Inputs {
		if !inp.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(inp.ItemID)
		if err != nil || item == nil || item.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		if !item.Stockable() || item.ID == output.ID {
			return nil, domain.ErrInvalidInput
		}
		plans = append(plans, inputPlan{item: item, quantity: inp.Quantity})
	}

	now := time.Now()
	run := &entity.ProductionRun{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		WarehouseID:  in.WarehouseID,
		OutputItemID: output.ID,
		OutputQty:    in.OutputQty,
		Number:       in.Number,
		Date:         now,
		Status:       entity.DocStatusOpen,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    userID,
	}
	if run.Number == "" {
		run.Number = fmt.Sprintf("OP-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
	}

	var resp *dto.ProductionRunResponse
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		totalCost := decimal.Zero
		consumedByAccount := make(map[string]decimal.Decimal)
		inputs := make([]*entity.ProductionInput, 0, len(plans))

		for _, p := range plans {
			cost, err := uc.stock.IssueInTx(r, p.item, inventory.IssueInput{
				WarehouseID: run.WarehouseID,
				Quantity:    p.quantity,
				DocType:     entity.DocTypeProductionRun,
				DocID:       run.ID,
				UserID:      userID,
				Now:         now,
			})
			if err != nil {
				return err
			}
			totalCost = totalCost.Add(cost)
			acct := entity.InventoryAccountFor(p.item.Type)
			consumedByAccount[acct] = consumedByAccount[acct].Add(cost)
			inputs = append(inputs, &entity.ProductionInput{
				ID:              uuid.New().String(),
				ProductionRunID: run.ID,
				ItemID:          p.item.ID,
				Quantity:        p.quantity,
				TotalCost:       cost,
			})
		}

		// Capa de salida: costo unitario = costo total / cantidad producida,
		// redondeado a la escala NUMERIC(18,4) de la columna. El asiento se
		// contabiliza por totalCost exacto; el residuo de redondeo queda
		// acotado por 0.0001 × cantidad producida.
		unitCost := totalCost.DivRound(run.OutputQty, 4)
		if _, _, err := uc.stock.ReceiveInTx(r, output, inventory.ReceiveInput{
			WarehouseID: run.WarehouseID,
			Quantity:    run.OutputQty,
			UnitCost:    unitCost,
			DocType:     entity.DocTypeProductionRun,
			DocID:       run.ID,
			UserID:      userID,
			Now:         now,
		}); err != nil {
			return err
		}

		run.TotalCost = totalCost
		if err := r.ProductionRuns.Create(run); err != nil {
			return err
		}
		for _, input := range inputs {
			if err := r.ProductionRuns.CreateInput(input); err != nil {
				return err
			}
		}

		// El asiento debita el inventario de salida y acredita los insumos
		// consumidos por su costo FIFO real: cuadra por construcción.
		jlines := []*entity.JournalLine{
			{AccountCode: entity.InventoryAccountFor(output.Type), Debit: totalCost, Credit: decimal.Zero},
		}
		for acct, cost := range consumedByAccount {
			jlines = append(jlines, &entity.JournalLine{AccountCode: acct, Debit: decimal.Zero, Credit: cost})
		}
		desc := fmt.Sprintf("Orden de producción %s", run.Number)
		if _, err := uc.poster.PostInTx(r, companyID, userID, entity.DocTypeProductionRun, run.ID, desc, now, jlines); err != nil {
			return err
		}

		resp = uc.toResponse(run, inputs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Get retorna la orden con sus insumos.
func (uc *ProductionRunUseCase) Get(ctx context.Context, companyID, runID string) (*dto.ProductionRunResponse, error) {
	run, err := uc.runRepo.GetByID(runID)
	if err != nil || run == nil {
		return nil, domain.ErrNotFound
	}
	if run.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	inputs, err := uc.runRepo.GetInputs(run.ID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(run, inputs), nil
}

// List lista las órdenes de producción de la empresa.
func (uc *ProductionRunUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ProductionRunListResponse, error) {
	page.DefaultPage()
	runs, err := uc.runRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductionRunListResponse{
		Items: make([]dto.ProductionRunResponse, 0, len(runs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, run := range runs {
		resp.Items = append(resp.Items, *uc.toResponse(run, nil))
	}
	return resp, nil
}

func (uc *ProductionRunUseCase) toResponse(run *entity.ProductionRun, inputs []*entity.ProductionInput) *dto.ProductionRunResponse {
	unitCost := decimal.Zero
	if run.OutputQty.GreaterThan(decimal.Zero) {
		// Misma escala que el costo de la capa de salida.
		unitCost = run.TotalCost.DivRound(run.OutputQty, 4)
	}
	resp := &dto.ProductionRunResponse{
		ID:           run.ID,
		CompanyID:    run.CompanyID,
		WarehouseID:  run.WarehouseID,
		OutputItemID: run.OutputItemID,
		OutputQty:    run.OutputQty,
		UnitCost:     unitCost,
		TotalCost:    run.TotalCost,
		Number:       run.Number,
		Date:         run.Date.Format("2006-01-02"),
		Status:       run.Status,
		Inputs:       make([]dto.ProductionInputResponse, 0, len(inputs)),
	}
	for _, inp := range inputs {
		resp.Inputs = append(resp.Inputs, dto.ProductionInputResponse{
			ItemID:    inp.ItemID,
			Quantity:  inp.Quantity,
			TotalCost: inp.TotalCost,
		})
	}
	return resp
}
