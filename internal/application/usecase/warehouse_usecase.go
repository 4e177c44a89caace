package usecase

import (
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una bodega.
func (uc *WarehouseUseCase) Create(companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	wh := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// GetByID obtiene una bodega validando pertenencia.
func (uc *WarehouseUseCase) GetByID(companyID, id string) (*dto.WarehouseResponse, error) {
	wh, err := uc.repo.GetByID(id)
	if err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toWarehouseResponse(wh), nil
}

// Update actualiza código/nombre/dirección.
func (uc *WarehouseUseCase) Update(companyID, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	wh, err := uc.repo.GetByID(id)
	if err != nil || wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Code != nil {
		wh.Code = *in.Code
	}
	if in.Name != nil {
		wh.Name = *in.Name
	}
	if in.Address != nil {
		wh.Address = *in.Address
	}
	wh.UpdatedAt = time.Now()
	if err := uc.repo.Update(wh); err != nil {
		return nil, err
	}
	return toWarehouseResponse(wh), nil
}

// List lista las bodegas de la empresa.
func (uc *WarehouseUseCase) List(companyID string, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	page.DefaultPage()
	whs, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.WarehouseListResponse{
		Items: make([]dto.WarehouseResponse, 0, len(whs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, wh := range whs {
		resp.Items = append(resp.Items, *toWarehouseResponse(wh))
	}
	return resp, nil
}

// Delete elimina una bodega.
func (uc *WarehouseUseCase) Delete(companyID, id string) error {
	wh, err := uc.repo.GetByID(id)
	if err != nil || wh == nil {
		return domain.ErrNotFound
	}
	if wh.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toWarehouseResponse(wh *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        wh.ID,
		CompanyID: wh.CompanyID,
		Code:      wh.Code,
		Name:      wh.Name,
		Address:   wh.Address,
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
	}
}
