package usecase

import (
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
)

// ItemUseCase casos de uso CRUD para ítems de catálogo. QuantityOnHand y
// AverageCost son caché del libro de inventario: nunca se editan aquí.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem nuevo. El stock inicia en cero; entra por compras o ajustes.
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Price.IsNegative() || in.TaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.Item{
		ID:                   uuid.New().String(),
		CompanyID:            companyID,
		SKU:                  in.SKU,
		Name:                 in.Name,
		Description:          in.Description,
		Type:                 in.Type,
		ValuationMethod:      entity.ValuationFIFO,
		Price:                in.Price,
		TaxRate:              in.TaxRate,
		RequiresInstallation: in.RequiresInstallation,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem validando pertenencia a la empresa.
func (uc *ItemUseCase) GetByID(companyID, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toItemResponse(item), nil
}

// Update actualiza campos editables. SKU, tipo y caché no se tocan.
func (uc *ItemUseCase) Update(companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.Price = *in.Price
	}
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.TaxRate = *in.TaxRate
	}
	if in.RequiresInstallation != nil {
		item.RequiresInstallation = *in.RequiresInstallation
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista los ítems de la empresa.
func (uc *ItemUseCase) List(companyID string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	items, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, item := range items {
		resp.Items = append(resp.Items, *toItemResponse(item))
	}
	return resp, nil
}

// Delete elimina un ítem. Rechaza ítems con stock en mano.
func (uc *ItemUseCase) Delete(companyID, id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil || item == nil {
		return domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if !item.QuantityOnHand.IsZero() {
		return domain.ErrConflict
	}
	return uc.repo.Delete(id)
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                   item.ID,
		CompanyID:            item.CompanyID,
		SKU:                  item.SKU,
		Name:                 item.Name,
		Description:          item.Description,
		Type:                 item.Type,
		ValuationMethod:      item.ValuationMethod,
		Price:                item.Price,
		TaxRate:              item.TaxRate,
		RequiresInstallation: item.RequiresInstallation,
		QuantityOnHand:       item.QuantityOnHand,
		AverageCost:          item.AverageCost,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}
