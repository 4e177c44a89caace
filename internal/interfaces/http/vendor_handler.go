package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
)

// VendorHandler maneja proveedores (protegido, módulo purchasing).
type VendorHandler struct {
	uc *usecase.VendorUseCase
}

// NewVendorHandler construye el handler.
func NewVendorHandler(uc *usecase.VendorUseCase) *VendorHandler {
	return &VendorHandler{uc: uc}
}

// Create crea un proveedor.
// POST /api/vendors
func (h *VendorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateVendorRequest
	if !parseBody(c, &in) {
		return nil
	}
	v, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

// GetByID devuelve un proveedor.
// GET /api/vendors/:id
func (h *VendorHandler) GetByID(c *fiber.Ctx) error {
	v, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(v)
}

// Update modifica un proveedor.
// PUT /api/vendors/:id
func (h *VendorHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateVendorRequest
	if !parseBody(c, &in) {
		return nil
	}
	v, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(v)
}

// List lista los proveedores de la empresa.
// GET /api/vendors
func (h *VendorHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// Delete elimina un proveedor.
// DELETE /api/vendors/:id
func (h *VendorHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
