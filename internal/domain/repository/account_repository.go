package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// AccountRepository define el puerto de persistencia del plan de cuentas.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByCode(companyID, code string) (*entity.Account, error)
	ListByCompany(companyID string) ([]*entity.Account, error)
	Update(account *entity.Account) error
}
