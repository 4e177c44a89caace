package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/usecase"
)

// TicketHandler maneja tickets de instalación (protegido, módulo service).
// Los tickets se crean como efecto de facturar ítems que requieren
// instalación; aquí solo se consultan.
type TicketHandler struct {
	uc *usecase.TicketUseCase
}

// NewTicketHandler construye el handler.
func NewTicketHandler(uc *usecase.TicketUseCase) *TicketHandler {
	return &TicketHandler{uc: uc}
}

// GetByID devuelve un ticket con sus activos.
// GET /api/tickets/:id
func (h *TicketHandler) GetByID(c *fiber.Ctx) error {
	ticket, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ticket)
}

// GetByInvoice devuelve el ticket asociado a una factura.
// GET /api/invoices/:id/ticket
func (h *TicketHandler) GetByInvoice(c *fiber.Ctx) error {
	ticket, err := h.uc.GetByInvoice(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ticket)
}

// List lista los tickets de la empresa.
// GET /api/tickets
func (h *TicketHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
