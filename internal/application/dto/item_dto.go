package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem de catálogo.
type CreateItemRequest struct {
	SKU                  string          `json:"sku" validate:"required,min=1,max=100"`
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	Description          string          `json:"description"`
	Type                 string          `json:"type" validate:"required,oneof=RAW_MATERIAL FINISHED_GOOD WORK_IN_PROCESS SERVICE"`
	Price                decimal.Decimal `json:"price"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	RequiresInstallation bool            `json:"requires_installation"`
}

// UpdateItemRequest entrada para actualizar un ítem. Los campos de caché
// (quantity_on_hand, average_cost) NO son editables desde la UI.
type UpdateItemRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description          *string          `json:"description"`
	Price                *decimal.Decimal `json:"price"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	RequiresInstallation *bool            `json:"requires_installation"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                   string          `json:"id"`
	CompanyID            string          `json:"company_id"`
	SKU                  string          `json:"sku"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Type                 string          `json:"type"`
	ValuationMethod      string          `json:"valuation_method"`
	Price                decimal.Decimal `json:"price"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	RequiresInstallation bool            `json:"requires_installation"`
	QuantityOnHand       decimal.Decimal `json:"quantity_on_hand"`
	AverageCost          decimal.Decimal `json:"average_cost"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
