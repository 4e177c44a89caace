package dto

import "github.com/shopspring/decimal"

// CreateBillRequest body para POST /api/bills.
type CreateBillRequest struct {
	VendorID        string            `json:"vendor_id" validate:"required,uuid"`
	WarehouseID     string            `json:"warehouse_id" validate:"required,uuid"`
	PurchaseOrderID string            `json:"purchase_order_id,omitempty" validate:"omitempty,uuid"`
	Number          string            `json:"number,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Items           []BillItemRequest `json:"items" validate:"required,min=1,dive"`
}

// BillItemRequest línea de compra (ítem, cantidad, costo unitario).
type BillItemRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// UpdateBillRequest body para PUT /api/bills/:id (solo estado OPEN).
type UpdateBillRequest struct {
	Notes string            `json:"notes,omitempty"`
	Items []BillItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ApproveBillRequest body para POST /api/bills/:id/approval (solo admin).
type ApproveBillRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// BillResponse factura de compra con detalle.
type BillResponse struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	VendorID        string             `json:"vendor_id"`
	VendorName      string             `json:"vendor_name,omitempty"`
	WarehouseID     string             `json:"warehouse_id"`
	PurchaseOrderID string             `json:"purchase_order_id,omitempty"`
	Number          string             `json:"number"`
	Date            string             `json:"date"`
	Status          string             `json:"status"`
	ApprovalStatus  string             `json:"approval_status"`
	NetTotal        decimal.Decimal    `json:"net_total"`
	TaxTotal        decimal.Decimal    `json:"tax_total"`
	GrandTotal      decimal.Decimal    `json:"grand_total"`
	Lines           []BillLineResponse `json:"lines"`
}

// BillLineResponse línea de compra en la respuesta.
type BillLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// BillListResponse lista paginada de facturas de compra.
type BillListResponse struct {
	Items []BillResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	VendorID    string            `json:"vendor_id" validate:"required,uuid"`
	WarehouseID string            `json:"warehouse_id" validate:"required,uuid"`
	Number      string            `json:"number,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Items       []BillItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderResponse orden de compra con detalle.
type PurchaseOrderResponse struct {
	ID          string             `json:"id"`
	CompanyID   string             `json:"company_id"`
	VendorID    string             `json:"vendor_id"`
	WarehouseID string             `json:"warehouse_id"`
	Number      string             `json:"number"`
	Date        string             `json:"date"`
	Status      string             `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	Lines       []BillLineResponse `json:"lines"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
