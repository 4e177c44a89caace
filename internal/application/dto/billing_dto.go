package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/invoices.
// WarehouseID: bodega de la cual se descuenta el inventario.
type CreateInvoiceRequest struct {
	CustomerID  string               `json:"customer_id" validate:"required,uuid"`
	WarehouseID string               `json:"warehouse_id" validate:"required,uuid"`
	Number      string               `json:"number,omitempty"` // opcional; si va vacío se genera
	Notes       string               `json:"notes,omitempty"`
	Items       []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura (ítem, cantidad, precio unitario).
type InvoiceItemRequest struct {
	ItemID    string          `json:"item_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // cero = usar precio de lista
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Reemplaza el juego completo de líneas; solo válido con la factura OPEN.
type UpdateInvoiceRequest struct {
	Notes string               `json:"notes,omitempty"`
	Items []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	CompanyID    string                `json:"company_id"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	WarehouseID  string                `json:"warehouse_id"`
	Number       string                `json:"number"`
	Date         string                `json:"date"`
	Status       string                `json:"status"`
	NetTotal     decimal.Decimal       `json:"net_total"`
	TaxTotal     decimal.Decimal       `json:"tax_total"`
	GrandTotal   decimal.Decimal       `json:"grand_total"`
	COGSTotal    decimal.Decimal       `json:"cogs_total"`
	TicketID     string                `json:"ticket_id,omitempty"` // ticket de instalación si se generó
	Lines        []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea de factura en la respuesta.
type InvoiceLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
