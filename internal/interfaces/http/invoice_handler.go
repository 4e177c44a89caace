package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/billing"
	"github.com/contaflow/erp-api/internal/application/dto"
)

// InvoiceHandler maneja facturas de venta (protegido, módulo billing).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura de venta
// @Description  Descuenta inventario FIFO, contabiliza el asiento y abre el ticket de instalación si aplica, todo en una transacción.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "cliente y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Security     Bearer
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if !parseBody(c, &in) {
		return nil
	}
	invoice, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Update godoc
// @Summary      Editar factura
// @Description  Solo mientras esté editable: reversa los efectos anteriores y aplica las nuevas líneas en la misma transacción.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "nuevas líneas"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse  "documento bloqueado"
// @Security     Bearer
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if !parseBody(c, &in) {
		return nil
	}
	invoice, err := h.uc.Update(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoice)
}

// Delete godoc
// @Summary      Eliminar factura
// @Description  Reversa stock y contabilidad y borra el documento. Solo mientras esté editable.
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID de la factura"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID obtiene el detalle completo de una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(invoice)
}

// List lista las facturas de la empresa.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
