package usecase

import (
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
)

// VendorUseCase casos de uso CRUD para proveedores.
type VendorUseCase struct {
	repo repository.VendorRepository
}

func NewVendorUseCase(repo repository.VendorRepository) *VendorUseCase {
	return &VendorUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *VendorUseCase) Create(companyID string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	now := time.Now()
	vendor := &entity.Vendor{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// GetByID obtiene un proveedor validando pertenencia.
func (uc *VendorUseCase) GetByID(companyID, id string) (*dto.VendorResponse, error) {
	vendor, err := uc.repo.GetByID(id)
	if err != nil || vendor == nil {
		return nil, domain.ErrNotFound
	}
	if vendor.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toVendorResponse(vendor), nil
}

// Update actualiza los datos del proveedor.
func (uc *VendorUseCase) Update(companyID, id string, in dto.CreateVendorRequest) (*dto.VendorResponse, error) {
	vendor, err := uc.repo.GetByID(id)
	if err != nil || vendor == nil {
		return nil, domain.ErrNotFound
	}
	if vendor.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	vendor.Name = in.Name
	vendor.TaxID = in.TaxID
	vendor.Email = in.Email
	vendor.Phone = in.Phone
	vendor.Address = in.Address
	vendor.UpdatedAt = time.Now()
	if err := uc.repo.Update(vendor); err != nil {
		return nil, err
	}
	return toVendorResponse(vendor), nil
}

// List lista los proveedores de la empresa.
func (uc *VendorUseCase) List(companyID string, page dto.PageRequest) ([]dto.VendorResponse, error) {
	page.DefaultPage()
	vendors, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, *toVendorResponse(v))
	}
	return out, nil
}

// Delete elimina un proveedor.
func (uc *VendorUseCase) Delete(companyID, id string) error {
	vendor, err := uc.repo.GetByID(id)
	if err != nil || vendor == nil {
		return domain.ErrNotFound
	}
	if vendor.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:        v.ID,
		CompanyID: v.CompanyID,
		Name:      v.Name,
		TaxID:     v.TaxID,
		Email:     v.Email,
		Phone:     v.Phone,
		Address:   v.Address,
	}
}
