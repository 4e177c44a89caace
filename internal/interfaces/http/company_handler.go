package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
)

// CompanyHandler maneja empresas y sus módulos.
type CompanyHandler struct {
	uc        *usecase.CompanyUseCase
	accountUC *usecase.AccountUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase, accountUC *usecase.AccountUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, accountUC: accountUC}
}

// Create registra una empresa nueva, activa los módulos según su tipo de
// negocio y siembra el plan de cuentas mínimo.
// POST /api/companies
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if !parseBody(c, &in) {
		return nil
	}
	company, err := h.uc.Create(in)
	if err != nil {
		return fail(c, err)
	}
	if err := h.accountUC.SeedDefaults(company.ID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(company)
}

// GetByID devuelve una empresa.
// GET /api/companies/:id
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	company, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(company)
}

// ListModules lista los módulos de la empresa del token.
// GET /api/companies/modules
func (h *CompanyHandler) ListModules(c *fiber.Ctx) error {
	modules, err := h.uc.ListModules(GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(modules)
}

// ActivateModule activa (o reactiva) un módulo. Solo admin.
// POST /api/companies/modules
func (h *CompanyHandler) ActivateModule(c *fiber.Ctx) error {
	var in dto.ActivateModuleRequest
	if !parseBody(c, &in) {
		return nil
	}
	if err := h.uc.ActivateModule(GetCompanyID(c), GetRole(c), in); err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "módulo activado"})
}
