package inventory

import (
	"context"
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/ledger"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLedgerUseCase es el libro de inventario: dueño exclusivo de las capas
// de costo FIFO. Entradas crean capas, salidas las agotan (más antigua
// primero, desempate por Seq) y cada operación deja movimiento auditable y
// actualiza el caché del ítem, todo dentro de una transacción con bloqueo
// de fila (SELECT FOR UPDATE) y Commit/Rollback.
type StockLedgerUseCase struct {
	txRunner      repository.TxRunner
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(
	txRunner repository.TxRunner,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner:      txRunner,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
	}
}

// ReceiveStock registra una entrada: crea una capa nueva con remaining = qty.
func (uc *StockLedgerUseCase) ReceiveStock(ctx context.Context, companyID, userID string, in dto.ReceiveStockRequest) (*dto.MovementResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.validateItem(companyID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Stockable() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.validateWarehouse(companyID, in.WarehouseID); err != nil {
		return nil, err
	}

	now := time.Now()
	var mov *entity.InventoryMovement
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		_, m, err := uc.ReceiveInTx(r, item, ReceiveInput{
			WarehouseID: in.WarehouseID,
			Quantity:    in.Quantity,
			UnitCost:    in.UnitCost,
			BatchNumber: in.BatchNumber,
			DocType:     entity.DocTypeAdjustment,
			DocID:       "",
			UserID:      userID,
			Now:         now,
		})
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// IssueStock registra una salida FIFO. warehouseID vacío = todas las bodegas.
// Falla con ErrInsufficientStock sin ninguna mutación si el stock no alcanza.
func (uc *StockLedgerUseCase) IssueStock(ctx context.Context, companyID, userID string, in dto.IssueStockRequest) (*dto.IssueStockResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.validateItem(companyID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if in.WarehouseID != "" {
		if err := uc.validateWarehouse(companyID, in.WarehouseID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	var totalCost decimal.Decimal
	err = uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		cost, err := uc.IssueInTx(r, item, IssueInput{
			WarehouseID: in.WarehouseID,
			Quantity:    in.Quantity,
			DocType:     entity.DocTypeAdjustment,
			DocID:       "",
			UserID:      userID,
			Now:         now,
		})
		if err != nil {
			return err
		}
		totalCost = cost
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.IssueStockResponse{ItemID: in.ItemID, Quantity: in.Quantity, TotalCost: totalCost}, nil
}

// AdjustStock: delta positivo crea capa nueva etiquetada con la razón;
// delta negativo sale por el mismo camino FIFO. Falla antes de dejar el
// stock en negativo.
func (uc *StockLedgerUseCase) AdjustStock(ctx context.Context, companyID, userID string, in dto.AdjustStockRequest) error {
	if in.Delta.IsZero() || in.Reason == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.validateItem(companyID, in.ItemID)
	if err != nil {
		return err
	}
	if err := uc.validateWarehouse(companyID, in.WarehouseID); err != nil {
		return err
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		if in.Delta.GreaterThan(decimal.Zero) {
			unitCost := item.AverageCost
			if in.UnitCost != nil {
				if in.UnitCost.IsNegative() {
					return domain.ErrInvalidInput
				}
				unitCost = *in.UnitCost
			}
			_, _, err := uc.ReceiveInTx(r, item, ReceiveInput{
				WarehouseID: in.WarehouseID,
				Quantity:    in.Delta,
				UnitCost:    unitCost,
				Reason:      in.Reason,
				DocType:     entity.DocTypeAdjustment,
				UserID:      userID,
				Now:         now,
			})
			return err
		}
		_, err := uc.IssueInTx(r, item, IssueInput{
			WarehouseID: in.WarehouseID,
			Quantity:    in.Delta.Neg(),
			DocType:     entity.DocTypeAdjustment,
			UserID:      userID,
			Now:         now,
		})
		return err
	})
}

// TransferStock saca por FIFO en la bodega origen y crea capas espejo en la
// destino a los mismos costos unitarios, en una sola transacción.
func (uc *StockLedgerUseCase) TransferStock(ctx context.Context, companyID, userID string, in dto.TransferStockRequest) error {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.FromWarehouseID == in.ToWarehouseID {
		return domain.ErrInvalidInput
	}
	item, err := uc.validateItem(companyID, in.ItemID)
	if err != nil {
		return err
	}
	if err := uc.validateWarehouse(companyID, in.FromWarehouseID); err != nil {
		return err
	}
	if err := uc.validateWarehouse(companyID, in.ToWarehouseID); err != nil {
		return err
	}

	now := time.Now()
	transferID := uuid.New().String()
	return uc.txRunner.Run(ctx, func(r *repository.Tx) error {
		layers, err := r.Layers.ListOpenForUpdate(item.ID, in.FromWarehouseID)
		if err != nil {
			return err
		}
		plan, _, err := ledger.PlanDepletion(layers, in.Quantity)
		if err != nil {
			return err
		}
		// Agotar en origen capa por capa y recrear en destino al mismo costo,
		// conservando la fecha de recepción original para no rejuvenecer FIFO.
		for _, dep := range plan {
			if err := uc.applyDepletion(r, item, dep, entity.MovementTypeTRANSFER, entity.DocTypeTransfer, transferID, userID, now); err != nil {
				return err
			}
			mirror := &entity.InventoryLayer{
				ID:           uuid.New().String(),
				CompanyID:    item.CompanyID,
				ItemID:       item.ID,
				WarehouseID:  in.ToWarehouseID,
				BatchNumber:  dep.Layer.BatchNumber,
				ReceivedAt:   dep.Layer.ReceivedAt,
				InitialQty:   dep.Quantity,
				RemainingQty: dep.Quantity,
				UnitCost:     dep.Layer.UnitCost,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := r.Layers.Create(mirror); err != nil {
				return err
			}
			inMov := &entity.InventoryMovement{
				ID:          uuid.New().String(),
				CompanyID:   item.CompanyID,
				ItemID:      item.ID,
				WarehouseID: in.ToWarehouseID,
				LayerID:     mirror.ID,
				Type:        entity.MovementTypeTRANSFER,
				Quantity:    dep.Quantity,
				UnitCost:    dep.Layer.UnitCost,
				TotalCost:   dep.Cost,
				DocType:     entity.DocTypeTransfer,
				DocID:       transferID,
				Date:        now,
				CreatedAt:   now,
				CreatedBy:   userID,
			}
			if err := r.Movements.Create(inMov); err != nil {
				return err
			}
		}
		return uc.RefreshCacheInTx(r, item.ID)
	})
}

// ReceiveInput parámetros de una entrada dentro de transacción.
type ReceiveInput struct {
	WarehouseID string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	BatchNumber string
	Reason      string
	DocType     string
	DocID       string
	UserID      string
	Now         time.Time
}

// ReceiveInTx crea la capa, el movimiento IN y refresca el caché del ítem,
// usando los repos del caller (misma transacción). Lo usan las compras, la
// producción y los ajustes positivos. Devuelve la capa y el movimiento
// persistidos.
func (uc *StockLedgerUseCase) ReceiveInTx(r *repository.Tx, item *entity.Item, in ReceiveInput) (*entity.InventoryLayer, *entity.InventoryMovement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.IsNegative() {
		return nil, nil, domain.ErrInvalidInput
	}
	layer := &entity.InventoryLayer{
		ID:           uuid.New().String(),
		CompanyID:    item.CompanyID,
		ItemID:       item.ID,
		WarehouseID:  in.WarehouseID,
		BatchNumber:  in.BatchNumber,
		ReceivedAt:   in.Now,
		InitialQty:   in.Quantity,
		RemainingQty: in.Quantity,
		UnitCost:     in.UnitCost,
		Reason:       in.Reason,
		CreatedAt:    in.Now,
		UpdatedAt:    in.Now,
	}
	if err := r.Layers.Create(layer); err != nil {
		return nil, nil, err
	}
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		CompanyID:   item.CompanyID,
		ItemID:      item.ID,
		WarehouseID: in.WarehouseID,
		LayerID:     layer.ID,
		Type:        entity.MovementTypeIN,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		TotalCost:   in.Quantity.Mul(in.UnitCost),
		DocType:     in.DocType,
		DocID:       in.DocID,
		Date:        in.Now,
		CreatedAt:   in.Now,
		CreatedBy:   in.UserID,
	}
	if err := r.Movements.Create(mov); err != nil {
		return nil, nil, err
	}
	if err := uc.RefreshCacheInTx(r, item.ID); err != nil {
		return nil, nil, err
	}
	return layer, mov, nil
}

// IssueInput parámetros de una salida dentro de transacción.
type IssueInput struct {
	WarehouseID string // vacío = todas las bodegas
	Quantity    decimal.Decimal
	DocType     string
	DocID       string
	UserID      string
	Now         time.Time
}

// IssueInTx ejecuta la salida FIFO con los repos del caller (misma
// transacción): bloquea las capas vivas, agota según el plan y devuelve el
// costo total Σ(tomado × costo de capa). Si no alcanza, retorna
// ErrInsufficientStock sin tocar nada y el caller debe hacer rollback.
func (uc *StockLedgerUseCase) IssueInTx(r *repository.Tx, item *entity.Item, in IssueInput) (decimal.Decimal, error) {
	layers, err := r.Layers.ListOpenForUpdate(item.ID, in.WarehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	plan, totalCost, err := ledger.PlanDepletion(layers, in.Quantity)
	if err != nil {
		return decimal.Zero, err
	}
	for _, dep := range plan {
		if err := uc.applyDepletion(r, item, dep, entity.MovementTypeOUT, in.DocType, in.DocID, in.UserID, in.Now); err != nil {
			return decimal.Zero, err
		}
	}
	if err := uc.RefreshCacheInTx(r, item.ID); err != nil {
		return decimal.Zero, err
	}
	return totalCost, nil
}

// applyDepletion decrementa una capa según el plan y registra el movimiento OUT.
func (uc *StockLedgerUseCase) applyDepletion(r *repository.Tx, item *entity.Item, dep ledger.Depletion, movType, docType, docID, userID string, now time.Time) error {
	layer := dep.Layer
	layer.RemainingQty = layer.RemainingQty.Sub(dep.Quantity)
	if !layer.RemainingQty.GreaterThan(decimal.Zero) {
		layer.IsDepleted = true
	}
	layer.UpdatedAt = now
	if err := r.Layers.UpdateRemaining(layer); err != nil {
		return err
	}
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		CompanyID:   item.CompanyID,
		ItemID:      item.ID,
		WarehouseID: layer.WarehouseID,
		LayerID:     layer.ID,
		Type:        movType,
		Quantity:    dep.Quantity.Neg(),
		UnitCost:    layer.UnitCost,
		TotalCost:   dep.Cost.Neg(),
		DocType:     docType,
		DocID:       docID,
		Date:        now,
		CreatedAt:   now,
		CreatedBy:   userID,
	}
	return r.Movements.Create(mov)
}

// ReverseDocInTx deshace exactamente los efectos de inventario de un
// documento usando su rastro de movimientos: las salidas devuelven cantidad a
// la capa original, las entradas eliminan la capa creada (solo si sigue
// intacta; si otro documento ya la consumió retorna ErrConflict). Borra los
// movimientos del documento, así una segunda reversa es un no-op.
func (uc *StockLedgerUseCase) ReverseDocInTx(r *repository.Tx, docType, docID string) error {
	movs, err := r.Movements.ListByDoc(docType, docID)
	if err != nil {
		return err
	}
	touched := make(map[string]bool)
	for _, mov := range movs {
		layer, err := r.Layers.GetForUpdate(mov.LayerID)
		if err != nil {
			return err
		}
		if layer == nil {
			return domain.ErrConflict
		}
		if mov.Quantity.IsNegative() {
			// Salida: devolver la cantidad a la capa.
			layer.RemainingQty = layer.RemainingQty.Add(mov.Quantity.Neg())
			if layer.RemainingQty.GreaterThan(layer.InitialQty) {
				return domain.ErrConflict
			}
			layer.IsDepleted = false
			layer.UpdatedAt = time.Now()
			if err := r.Layers.UpdateRemaining(layer); err != nil {
				return err
			}
		} else {
			// Entrada: la capa debe seguir intacta para poder eliminarla.
			if !layer.RemainingQty.Equal(layer.InitialQty) {
				return domain.ErrConflict
			}
			if err := r.Layers.Delete(layer.ID); err != nil {
				return err
			}
		}
		touched[mov.ItemID] = true
	}
	if err := r.Movements.DeleteByDoc(docType, docID); err != nil {
		return err
	}
	for itemID := range touched {
		if err := uc.RefreshCacheInTx(r, itemID); err != nil {
			return err
		}
	}
	return nil
}

// RefreshCacheInTx recalcula quantity_on_hand y average_cost del ítem desde
// sus capas vivas (la verdad) y escribe el caché denormalizado.
func (uc *StockLedgerUseCase) RefreshCacheInTx(r *repository.Tx, itemID string) error {
	layers, err := r.Layers.ListOpen(itemID)
	if err != nil {
		return err
	}
	return r.Items.UpdateCache(itemID, ledger.Available(layers), ledger.AverageCost(layers))
}

func (uc *StockLedgerUseCase) validateItem(companyID, itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (uc *StockLedgerUseCase) validateWarehouse(companyID, warehouseID string) error {
	wh, _ := uc.warehouseRepo.GetByID(warehouseID)
	if wh == nil || wh.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		WarehouseID: m.WarehouseID,
		LayerID:     m.LayerID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		DocType:     m.DocType,
		DocID:       m.DocID,
		Date:        m.Date,
	}
}
