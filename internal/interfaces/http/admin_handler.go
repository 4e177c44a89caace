package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/admin"
	"github.com/contaflow/erp-api/internal/application/dto"
)

// AdminHandler maneja operaciones administrativas destructivas.
type AdminHandler struct {
	resetUC *admin.ResetUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(resetUC *admin.ResetUseCase) *AdminHandler {
	return &AdminHandler{resetUC: resetUC}
}

// Reset godoc
// @Summary      Borrar datos transaccionales
// @Description  Borra documentos, capas, movimientos, asientos, tickets y activos de la empresa conservando los maestros. Requiere rol admin y la frase de confirmación exacta.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetRequest  true  "frase de confirmación"
// @Success      200   {object}  dto.ResetResponse
// @Failure      400   {object}  dto.ErrorResponse  "frase incorrecta"
// @Failure      403   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/admin/reset [post]
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	var in dto.ResetRequest
	if !parseBody(c, &in) {
		return nil
	}
	resp, err := h.resetUC.Reset(c.Context(), GetCompanyID(c), GetRole(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
