package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
)

// WarehouseHandler maneja bodegas (protegido).
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create crea una bodega.
// POST /api/warehouses
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if !parseBody(c, &in) {
		return nil
	}
	w, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// GetByID devuelve una bodega.
// GET /api/warehouses/:id
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	w, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(w)
}

// Update modifica nombre/dirección.
// PUT /api/warehouses/:id
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWarehouseRequest
	if !parseBody(c, &in) {
		return nil
	}
	w, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(w)
}

// List lista las bodegas de la empresa.
// GET /api/warehouses
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// Delete elimina una bodega sin stock.
// DELETE /api/warehouses/:id
func (h *WarehouseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
