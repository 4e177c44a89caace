package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/manufacturing"
)

// ProductionHandler maneja órdenes de producción (protegido, módulo manufacturing).
type ProductionHandler struct {
	uc *manufacturing.ProductionRunUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *manufacturing.ProductionRunUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Ejecutar orden de producción
// @Description  Consume los insumos FIFO, ingresa el producto terminado al costo real acumulado y contabiliza, en una transacción.
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionRunRequest  true  "producto de salida e insumos"
// @Success      201   {object}  dto.ProductionRunResponse
// @Failure      409   {object}  dto.ErrorResponse  "insumos insuficientes"
// @Security     Bearer
// @Router       /api/production-runs [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionRunRequest
	if !parseBody(c, &in) {
		return nil
	}
	run, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(run)
}

// GetByID devuelve una orden de producción con sus insumos.
// GET /api/production-runs/:id
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	run, err := h.uc.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(run)
}

// List lista las órdenes de producción.
// GET /api/production-runs
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetCompanyID(c), pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
