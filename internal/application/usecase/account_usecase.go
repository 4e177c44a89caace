package usecase

import (
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
)

// AccountUseCase gestiona el plan de cuentas. Las cuentas no guardan saldo:
// los saldos se derivan del diario.
type AccountUseCase struct {
	repo repository.AccountRepository
}

func NewAccountUseCase(repo repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Create crea una cuenta contable. El código es único por empresa.
func (uc *AccountUseCase) Create(companyID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	existing, _ := uc.repo.GetByCode(companyID, in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	account := &entity.Account{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetByCode obtiene una cuenta por código PUC.
func (uc *AccountUseCase) GetByCode(companyID, code string) (*dto.AccountResponse, error) {
	account, err := uc.repo.GetByCode(companyID, code)
	if err != nil || account == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(account), nil
}

// List lista el plan de cuentas de la empresa.
func (uc *AccountUseCase) List(companyID string) ([]dto.AccountResponse, error) {
	accounts, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, *toAccountResponse(a))
	}
	return out, nil
}

// SeedDefaults crea las cuentas PUC mínimas que usan los escritores de
// transacciones, si no existen. Se invoca al crear la empresa.
func (uc *AccountUseCase) SeedDefaults(companyID string) error {
	defaults := []struct {
		code, name, typ string
	}{
		{entity.AccountCash, "Caja", entity.AccountTypeAsset},
		{entity.AccountReceivable, "Clientes", entity.AccountTypeAsset},
		{entity.AccountRawMaterials, "Materias primas", entity.AccountTypeAsset},
		{entity.AccountWorkInProcess, "Productos en proceso", entity.AccountTypeAsset},
		{entity.AccountFinishedGoods, "Productos terminados", entity.AccountTypeAsset},
		{entity.AccountInventory, "Mercancías no fabricadas", entity.AccountTypeAsset},
		{entity.AccountPayable, "Proveedores", entity.AccountTypeLiability},
		{entity.AccountTaxPayable, "IVA por pagar", entity.AccountTypeLiability},
		{entity.AccountSalesIncome, "Ingresos por ventas", entity.AccountTypeIncome},
		{entity.AccountInventoryLosses, "Pérdidas de inventario", entity.AccountTypeExpense},
		{entity.AccountCOGS, "Costo de ventas", entity.AccountTypeExpense},
	}
	now := time.Now()
	for _, d := range defaults {
		existing, _ := uc.repo.GetByCode(companyID, d.code)
		if existing != nil {
			continue
		}
		account := &entity.Account{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Code:      d.code,
			Name:      d.name,
			Type:      d.typ,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.repo.Create(account); err != nil {
			return err
		}
	}
	return nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:        a.ID,
		CompanyID: a.CompanyID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type,
		IsActive:  a.IsActive,
	}
}
