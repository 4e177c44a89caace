package dto

import "github.com/shopspring/decimal"

// CreateProductionRunRequest body para POST /api/production-runs.
// Consume los insumos por FIFO y produce OutputQty del ítem de salida al
// costo acumulado de los consumos.
type CreateProductionRunRequest struct {
	WarehouseID  string                   `json:"warehouse_id" validate:"required,uuid"`
	OutputItemID string                   `json:"output_item_id" validate:"required,uuid"`
	OutputQty    decimal.Decimal          `json:"output_qty"`
	Number       string                   `json:"number,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	Inputs       []ProductionInputRequest `json:"inputs" validate:"required,min=1,dive"`
}

// ProductionInputRequest insumo a consumir.
type ProductionInputRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ProductionRunResponse orden de producción con insumos.
type ProductionRunResponse struct {
	ID           string                    `json:"id"`
	CompanyID    string                    `json:"company_id"`
	WarehouseID  string                    `json:"warehouse_id"`
	OutputItemID string                    `json:"output_item_id"`
	OutputQty    decimal.Decimal           `json:"output_qty"`
	UnitCost     decimal.Decimal           `json:"unit_cost"` // TotalCost / OutputQty
	TotalCost    decimal.Decimal           `json:"total_cost"`
	Number       string                    `json:"number"`
	Date         string                    `json:"date"`
	Status       string                    `json:"status"`
	Inputs       []ProductionInputResponse `json:"inputs"`
}

// ProductionInputResponse insumo consumido con su costo FIFO real.
type ProductionInputResponse struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ProductionRunListResponse lista paginada de órdenes de producción.
type ProductionRunListResponse struct {
	Items []ProductionRunResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
