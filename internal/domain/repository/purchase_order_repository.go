package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	CreateLine(line *entity.PurchaseOrderLine) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetLines(poID string) ([]*entity.PurchaseOrderLine, error)
	UpdateStatus(id, status string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
