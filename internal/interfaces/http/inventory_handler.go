package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/inventory"
)

// InventoryHandler maneja las operaciones directas de stock (protegido,
// módulo inventory). Las entradas/salidas derivadas de documentos van por
// sus propios handlers (facturas, compras, producción).
type InventoryHandler struct {
	stock  *inventory.StockLedgerUseCase
	health *inventory.HealthUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockLedgerUseCase, health *inventory.HealthUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, health: health}
}

// Receive godoc
// @Summary      Registrar entrada de stock
// @Description  Crea una capa FIFO nueva y actualiza el caché del ítem.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "ítem, cantidad, costo unitario, bodega"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	mov, err := h.stock.ReceiveStock(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mov)
}

// Issue godoc
// @Summary      Registrar salida de stock
// @Description  Consume capas FIFO (la más antigua primero) y devuelve el costo real de la salida. Falla sin mutar nada si el stock no alcanza.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueStockRequest  true  "ítem, cantidad, bodega opcional"
// @Success      201   {object}  dto.IssueStockResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Security     Bearer
// @Router       /api/inventory/issue [post]
func (h *InventoryHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	resp, err := h.stock.IssueStock(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Adjust ajusta el stock a un delta positivo o negativo.
// POST /api/inventory/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.stock.AdjustStock(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "ajuste aplicado"})
}

// Transfer mueve stock entre bodegas conservando costo y antigüedad FIFO.
// POST /api/inventory/transfer
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.stock.TransferStock(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "transferencia aplicada"})
}

// Health godoc
// @Summary      Chequear salud del inventario
// @Description  Compara el stock cacheado de cada ítem contra la suma de sus capas vivas y reporta las derivas.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.InventoryHealthResponse
// @Security     Bearer
// @Router       /api/inventory/health [get]
func (h *InventoryHandler) Health(c *fiber.Ctx) error {
	resp, err := h.health.CheckHealth(c.Context(), GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// Resync godoc
// @Summary      Resincronizar caché de stock
// @Description  Recalcula quantity_on_hand y average_cost de cada ítem desde sus capas. Solo admin.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.ResyncResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     Bearer
// @Router       /api/inventory/resync [post]
func (h *InventoryHandler) Resync(c *fiber.Ctx) error {
	resp, err := h.health.Resync(c.Context(), GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
