package dto

import "time"

// TicketResponse ticket de servicio en respuestas.
type TicketResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	CustomerID string          `json:"customer_id"`
	InvoiceID  string          `json:"invoice_id"`
	Number     string          `json:"number"`
	Status     string          `json:"status"`
	Assets     []AssetResponse `json:"assets,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AssetResponse activo de cliente pendiente de instalación.
type AssetResponse struct {
	ID            string `json:"id"`
	ItemID        string `json:"item_id"`
	InvoiceLineID string `json:"invoice_line_id"`
	Status        string `json:"status"`
}

// TicketListResponse lista paginada de tickets.
type TicketListResponse struct {
	Items []TicketResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ResetRequest body para POST /api/admin/reset. La frase debe ser exactamente
// la esperada por el servidor para ejecutar el borrado.
type ResetRequest struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

// ResetResponse resumen del borrado transaccional.
type ResetResponse struct {
	Message string `json:"message"`
}
