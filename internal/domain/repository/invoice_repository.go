package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas de venta.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	Update(invoice *entity.Invoice) error
	UpdateStatus(id, status string) error
	GetByID(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	// DeleteLines borra las líneas de la factura (re-aplicación en ediciones).
	DeleteLines(invoiceID string) error
	Delete(id string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error)
}
