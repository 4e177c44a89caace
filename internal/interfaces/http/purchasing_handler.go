package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/purchasing"
)

// BillHandler maneja facturas de compra (protegido, módulo purchasing).
type BillHandler struct {
	uc *purchasing.BillUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *purchasing.BillUseCase) *BillHandler {
	return &BillHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura de compra
// @Description  Ingresa una capa FIFO por línea de inventario y contabiliza la compra, en una transacción. Queda pendiente de aprobación.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "proveedor y líneas"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if !parseBody(c, &in) {
		return nil
	}
	bill, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bill)
}

// Update reemplaza las líneas de una compra editable.
// PUT /api/bills/:id
func (h *BillHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBillRequest
	if !parseBody(c, &in) {
		return nil
	}
	bill, err := h.uc.Update(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bill)
}

// Delete elimina una compra editable reversando stock y contabilidad.
// DELETE /api/bills/:id
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve godoc
// @Summary      Aprobar o rechazar compra
// @Description  Transición de una sola vía PENDING → APPROVED/REJECTED. Solo admin.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la compra"
// @Param        body  body  dto.ApproveBillRequest  true  "decisión"
// @Success      200   {object}  dto.BillResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya decidida"
// @Security     Bearer
// @Router       /api/bills/{id}/approve [post]
func (h *BillHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveBillRequest
	if !parseBody(c, &in) {
		return nil
	}
	bill, err := h.uc.Approve(c.Context(), GetCompanyID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bill)
}

// GetByID obtiene el detalle de una compra.
// GET /api/bills/:id
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	bill, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bill)
}

// List lista las compras de la empresa.
// GET /api/bills
func (h *BillHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// PurchaseOrderHandler maneja órdenes de compra (sin efectos de inventario).
type PurchaseOrderHandler struct {
	uc *purchasing.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create crea una orden de compra.
// POST /api/purchase-orders
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if !parseBody(c, &in) {
		return nil
	}
	po, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(po)
}

// GetByID devuelve una orden de compra.
// GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(po)
}

// UpdateStatus cambia el estado de la orden (OPEN, CLOSED, CANCELLED).
// PATCH /api/purchase-orders/:id/status
func (h *PurchaseOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in struct {
		Status string `json:"status" validate:"required,oneof=OPEN CLOSED CANCELLED"`
	}
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.uc.UpdateStatus(c.Context(), GetCompanyID(c), c.Params("id"), in.Status); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "estado actualizado"})
}

// List lista las órdenes de compra.
// GET /api/purchase-orders
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
