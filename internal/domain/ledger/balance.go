package ledger

import (
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CheckBalanced valida que un conjunto de líneas de asiento cumpla la partida
// doble: cada línea es débito XOR crédito con monto no negativo, y
// Σdébitos == Σcréditos exacto (sin tolerancia de redondeo).
func CheckBalanced(lines []*entity.JournalLine) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	debits := decimal.Zero
	credits := decimal.Zero
	for _, l := range lines {
		if l.AccountCode == "" {
			return domain.ErrInvalidInput
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return domain.ErrInvalidInput
		}
		if l.Debit.IsPositive() && l.Credit.IsPositive() {
			return domain.ErrInvalidInput
		}
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	if !debits.Equal(credits) {
		return domain.ErrUnbalancedEntry
	}
	return nil
}

// ReverseLines construye las líneas del asiento de reversa: débitos y
// créditos intercambiados, mismas cuentas y montos.
func ReverseLines(lines []*entity.JournalLine) []*entity.JournalLine {
	out := make([]*entity.JournalLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, &entity.JournalLine{
			AccountCode: l.AccountCode,
			Description: "Reversa: " + l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
		})
	}
	return out
}
