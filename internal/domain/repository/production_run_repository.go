package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// ProductionRunRepository define el puerto de persistencia para órdenes de producción.
type ProductionRunRepository interface {
	Create(run *entity.ProductionRun) error
	CreateInput(input *entity.ProductionInput) error
	GetByID(id string) (*entity.ProductionRun, error)
	GetInputs(runID string) ([]*entity.ProductionInput, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionRun, error)
}
