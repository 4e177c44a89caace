package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
)

// CustomerHandler maneja clientes (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create crea un cliente.
// POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if !parseBody(c, &in) {
		return nil
	}
	cust, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// GetByID devuelve un cliente.
// GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	cust, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cust)
}

// Update modifica un cliente.
// PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if !parseBody(c, &in) {
		return nil
	}
	cust, err := h.uc.Update(GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cust)
}

// List lista los clientes de la empresa.
// GET /api/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// Delete elimina un cliente.
// DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(GetCompanyID(c), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
