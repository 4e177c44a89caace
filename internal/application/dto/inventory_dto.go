package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/inventory/receipts.
type ReceiveStockRequest struct {
	ItemID      string          `json:"item_id" validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// IssueStockRequest body para POST /api/inventory/issues.
// WarehouseID vacío = FIFO global entre todas las bodegas.
type IssueStockRequest struct {
	ItemID      string          `json:"item_id" validate:"required,uuid"`
	WarehouseID string          `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason,omitempty"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Delta positivo crea capa nueva; negativo sale por FIFO.
type AdjustStockRequest struct {
	ItemID      string           `json:"item_id" validate:"required,uuid"`
	WarehouseID string           `json:"warehouse_id" validate:"required,uuid"`
	Delta       decimal.Decimal  `json:"delta"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason      string           `json:"reason" validate:"required,min=3,max=200"`
}

// TransferStockRequest body para POST /api/inventory/transfers.
type TransferStockRequest struct {
	ItemID          string          `json:"item_id" validate:"required,uuid"`
	FromWarehouseID string          `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string          `json:"to_warehouse_id" validate:"required,uuid,nefield=FromWarehouseID"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// MovementResponse movimiento de inventario en respuestas.
type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	LayerID     string          `json:"layer_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	DocType     string          `json:"doc_type,omitempty"`
	DocID       string          `json:"doc_id,omitempty"`
	Date        time.Time       `json:"date"`
}

// IssueStockResponse resultado de una salida: costo FIFO total.
type IssueStockResponse struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// InventoryHealthResponse resultado del chequeo de deriva del caché.
type InventoryHealthResponse struct {
	OutOfSyncItems int             `json:"out_of_sync_items"`
	Discrepancies  []ItemDriftDTO  `json:"discrepancies,omitempty"`
	TotalDriftQty  decimal.Decimal `json:"total_drift_qty"`
}

// ItemDriftDTO un ítem cuyo caché difiere de la verdad derivada de capas.
type ItemDriftDTO struct {
	ItemID      string `json:"item_id"`
	SKU         string `json:"sku"`
	CachedQty   string `json:"cached_qty"`
	DerivedQty  string `json:"derived_qty"`
	Discrepancy string `json:"discrepancy"`
}

// ResyncResponse resultado del recálculo de caché.
type ResyncResponse struct {
	ItemsResynced int `json:"items_resynced"`
}
