package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
)

// ItemHandler maneja el catálogo de ítems (protegido, módulo inventory).
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create crea un ítem. SKU único por empresa.
// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// GetByID devuelve un ítem con su stock cacheado.
// GET /api/items/:id
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// Update modifica los campos editables de un ítem.
// PUT /api/items/:id
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if !parseBody(c, &in) {
		return nil
	}
	item, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// List lista los ítems de la empresa.
// GET /api/items
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

// Delete elimina un ítem sin stock ni movimientos.
// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
