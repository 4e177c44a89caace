package usecase

import (
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
)

// CompanyUseCase gestiona empresas (tenants) y la activación de módulos.
// El tipo de negocio determina los módulos que se activan al crearla.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// defaultModulesFor módulos iniciales según el tipo de negocio.
func defaultModulesFor(businessType string) []string {
	base := []string{entity.ModuleInventory, entity.ModuleBilling, entity.ModulePurchasing, entity.ModuleAccounting}
	switch businessType {
	case entity.BusinessTypeManufacturing:
		return append(base, entity.ModuleManufacturing)
	case entity.BusinessTypeService:
		return append(base, entity.ModuleService)
	default:
		return base
	}
}

// Create crea la empresa y activa sus módulos por defecto.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	now := time.Now()
	company := &entity.Company{
		ID:           uuid.New().String(),
		Name:         in.Name,
		TaxID:        in.TaxID,
		BusinessType: in.BusinessType,
		Address:      in.Address,
		Phone:        in.Phone,
		Email:        in.Email,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	for _, mod := range defaultModulesFor(in.BusinessType) {
		module := &entity.CompanyModule{
			ID:          uuid.New().String(),
			CompanyID:   company.ID,
			ModuleName:  mod,
			IsActive:    true,
			ActivatedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.repo.ActivateModule(module); err != nil {
			return nil, err
		}
	}
	return toCompanyResponse(company), nil
}

// GetByID obtiene una empresa.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil || company == nil {
		return nil, domain.ErrNotFound
	}
	return toCompanyResponse(company), nil
}

// HasActiveModule indica si el módulo está activo y vigente para la empresa.
func (uc *CompanyUseCase) HasActiveModule(companyID, moduleName string) (bool, error) {
	return uc.repo.HasActiveModule(companyID, moduleName)
}

// ListModules lista los módulos de la empresa.
func (uc *CompanyUseCase) ListModules(companyID string) ([]dto.CompanyModuleResponse, error) {
	modules, err := uc.repo.ListModules(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyModuleResponse, 0, len(modules))
	for _, m := range modules {
		out = append(out, dto.CompanyModuleResponse{
			ModuleName:  m.ModuleName,
			IsActive:    m.IsActive,
			ActivatedAt: m.ActivatedAt,
			ExpiresAt:   m.ExpiresAt,
		})
	}
	return out, nil
}

// ActivateModule activa (o reactiva) un módulo. Solo admin.
func (uc *CompanyUseCase) ActivateModule(companyID, role string, in dto.ActivateModuleRequest) error {
	if role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	company, err := uc.repo.GetByID(companyID)
	if err != nil || company == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	module := &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  in.ModuleName,
		IsActive:    true,
		ActivatedAt: now,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return uc.repo.ActivateModule(module)
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		BusinessType: c.BusinessType,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
	}
}
