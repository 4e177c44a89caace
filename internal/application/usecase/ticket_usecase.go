package usecase

import (
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
)

// TicketUseCase consultas del módulo de servicio técnico. Los tickets se
// CREAN solo como efecto secundario de facturar ítems con instalación; aquí
// se consultan y se avanza su ciclo de vida.
type TicketUseCase struct {
	repo repository.TicketRepository
}

func NewTicketUseCase(repo repository.TicketRepository) *TicketUseCase {
	return &TicketUseCase{repo: repo}
}

// GetByID retorna un ticket con sus activos.
func (uc *TicketUseCase) GetByID(companyID, id string) (*dto.TicketResponse, error) {
	ticket, err := uc.repo.GetTicketByID(id)
	if err != nil || ticket == nil {
		return nil, domain.ErrNotFound
	}
	if ticket.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	assets, err := uc.repo.ListAssetsByTicket(ticket.ID)
	if err != nil {
		return nil, err
	}
	return toTicketResponse(ticket, assets), nil
}

// GetByInvoice retorna el ticket de la factura (máximo uno) o ErrNotFound.
func (uc *TicketUseCase) GetByInvoice(companyID, invoiceID string) (*dto.TicketResponse, error) {
	ticket, err := uc.repo.GetTicketByInvoice(invoiceID)
	if err != nil || ticket == nil {
		return nil, domain.ErrNotFound
	}
	if ticket.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	assets, err := uc.repo.ListAssetsByTicket(ticket.ID)
	if err != nil {
		return nil, err
	}
	return toTicketResponse(ticket, assets), nil
}

// List lista los tickets de la empresa.
func (uc *TicketUseCase) List(companyID string, page dto.PageRequest) (*dto.TicketListResponse, error) {
	page.DefaultPage()
	tickets, err := uc.repo.ListTicketsByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.TicketListResponse{
		Items: make([]dto.TicketResponse, 0, len(tickets)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, t := range tickets {
		resp.Items = append(resp.Items, *toTicketResponse(t, nil))
	}
	return resp, nil
}

func toTicketResponse(t *entity.ServiceTicket, assets []*entity.CustomerAsset) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:         t.ID,
		CompanyID:  t.CompanyID,
		CustomerID: t.CustomerID,
		InvoiceID:  t.InvoiceID,
		Number:     t.Number,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
	}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, dto.AssetResponse{
			ID:            a.ID,
			ItemID:        a.ItemID,
			InvoiceLineID: a.InvoiceLineID,
			Status:        a.Status,
		})
	}
	return resp
}
