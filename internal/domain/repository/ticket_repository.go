package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// TicketRepository define el puerto de persistencia para tickets de servicio
// y activos de cliente creados al facturar ítems con instalación.
type TicketRepository interface {
	CreateTicket(ticket *entity.ServiceTicket) error
	CreateAsset(asset *entity.CustomerAsset) error
	GetTicketByID(id string) (*entity.ServiceTicket, error)
	// GetTicketByInvoice devuelve el ticket de la factura (máximo uno) o nil.
	GetTicketByInvoice(invoiceID string) (*entity.ServiceTicket, error)
	ListAssetsByTicket(ticketID string) ([]*entity.CustomerAsset, error)
	ListTicketsByCompany(companyID string, limit, offset int) ([]*entity.ServiceTicket, error)
	// DeleteByInvoice elimina ticket y activos del documento (reversa de edición).
	DeleteByInvoice(invoiceID string) error
}
