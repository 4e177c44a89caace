package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/application/usecase"
	"github.com/contaflow/erp-api/internal/domain/entity"
)

// AccountingHandler maneja el diario y el plan de cuentas (protegido,
// módulo accounting).
type AccountingHandler struct {
	poster    *accounting.Poster
	accountUC *usecase.AccountUseCase
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(poster *accounting.Poster, accountUC *usecase.AccountUseCase) *AccountingHandler {
	return &AccountingHandler{poster: poster, accountUC: accountUC}
}

// PostEntry godoc
// @Summary      Crear asiento manual
// @Description  Persiste un asiento con sus líneas. Σdébitos debe igualar Σcréditos o el asiento se rechaza completo.
// @Tags         journal
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJournalEntryRequest  true  "descripción, fecha y líneas"
// @Success      201   {object}  dto.JournalEntryResponse
// @Failure      400   {object}  dto.ErrorResponse  "asiento descuadrado"
// @Security     Bearer
// @Router       /api/journal [post]
func (h *AccountingHandler) PostEntry(c *fiber.Ctx) error {
	var in dto.CreateJournalEntryRequest
	if !parseBody(c, &in) {
		return nil
	}
	date := time.Now().UTC()
	if in.Date != "" {
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		date = parsed
	}
	lines := make([]*entity.JournalLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.JournalLine{
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	entry, err := h.poster.PostManual(c.Context(), GetCompanyID(c), GetUserID(c), in.Description, date, lines)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetEntry devuelve un asiento con sus líneas.
// GET /api/journal/:id
func (h *AccountingHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.poster.GetEntry(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entry)
}

// ListEntries lista asientos, opcionalmente filtrados por rango de fechas
// (query params from/to en formato YYYY-MM-DD).
// GET /api/journal
func (h *AccountingHandler) ListEntries(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
		}
		// El filtro es inclusivo hasta el final del día.
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	list, err := h.poster.ListEntries(c.Context(), GetCompanyID(c), from, to, pageFromQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// AccountBalance godoc
// @Summary      Saldo de una cuenta
// @Description  Saldo derivado sumando las líneas del diario; nunca se almacena.
// @Tags         journal
// @Produce      json
// @Param        code  path  string  true  "código PUC"
// @Success      200   {object}  dto.AccountBalanceResponse
// @Security     Bearer
// @Router       /api/accounts/{code}/balance [get]
func (h *AccountingHandler) AccountBalance(c *fiber.Ctx) error {
	balance, err := h.poster.AccountBalance(c.Context(), GetCompanyID(c), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(balance)
}

// TrialBalance devuelve el balance de prueba (todas las cuentas con movimiento).
// GET /api/journal/trial-balance
func (h *AccountingHandler) TrialBalance(c *fiber.Ctx) error {
	balances, err := h.poster.TrialBalance(c.Context(), GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(balances)
}

// CreateAccount agrega una cuenta al plan de la empresa.
// POST /api/accounts
func (h *AccountingHandler) CreateAccount(c *fiber.Ctx) error {
	var in dto.CreateAccountRequest
	if !parseBody(c, &in) {
		return nil
	}
	account, err := h.accountUC.Create(GetCompanyID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// ListAccounts lista el plan de cuentas.
// GET /api/accounts
func (h *AccountingHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.accountUC.List(GetCompanyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(accounts)
}

// GetAccount devuelve una cuenta por código.
// GET /api/accounts/:code
func (h *AccountingHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.accountUC.GetByCode(GetCompanyID(c), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(account)
}
