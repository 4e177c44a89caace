package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// BillRepository define el puerto de persistencia para facturas de compra.
type BillRepository interface {
	Create(bill *entity.Bill) error
	CreateLine(line *entity.BillLine) error
	Update(bill *entity.Bill) error
	UpdateStatus(id, status string) error
	// UpdateApproval cambia el estado de aprobación (PENDING/APPROVED/REJECTED).
	UpdateApproval(id, approvalStatus string) error
	GetByID(id string) (*entity.Bill, error)
	GetLines(billID string) ([]*entity.BillLine, error)
	DeleteLines(billID string) error
	Delete(id string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Bill, error)
}
