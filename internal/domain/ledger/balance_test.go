package ledger_test

import (
	"testing"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debit(code string, amount int64) *entity.JournalLine {
	return &entity.JournalLine{AccountCode: code, Debit: decimal.NewFromInt(amount)}
}

func credit(code string, amount int64) *entity.JournalLine {
	return &entity.JournalLine{AccountCode: code, Credit: decimal.NewFromInt(amount)}
}

func TestCheckBalanced_AsientoCuadrado(t *testing.T) {
	lines := []*entity.JournalLine{
		debit(entity.AccountReceivable, 1_190_000),
		credit(entity.AccountSalesIncome, 1_000_000),
		credit(entity.AccountTaxPayable, 190_000),
	}
	assert.NoError(t, ledger.CheckBalanced(lines))
}

func TestCheckBalanced_Descuadrado(t *testing.T) {
	lines := []*entity.JournalLine{
		debit(entity.AccountReceivable, 1_190_000),
		credit(entity.AccountSalesIncome, 1_000_000),
	}
	assert.ErrorIs(t, ledger.CheckBalanced(lines), domain.ErrUnbalancedEntry)
}

func TestCheckBalanced_LineasInvalidas(t *testing.T) {
	// Débito y crédito en la misma línea.
	both := &entity.JournalLine{AccountCode: "1105", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)}
	assert.ErrorIs(t, ledger.CheckBalanced([]*entity.JournalLine{both}), domain.ErrInvalidInput)

	// Monto negativo.
	neg := &entity.JournalLine{AccountCode: "1105", Debit: decimal.NewFromInt(-5)}
	assert.ErrorIs(t, ledger.CheckBalanced([]*entity.JournalLine{neg}), domain.ErrInvalidInput)

	// Sin cuenta.
	noAccount := &entity.JournalLine{Debit: decimal.NewFromInt(5)}
	assert.ErrorIs(t, ledger.CheckBalanced([]*entity.JournalLine{noAccount}), domain.ErrInvalidInput)

	// Asiento vacío.
	assert.ErrorIs(t, ledger.CheckBalanced(nil), domain.ErrInvalidInput)
}

// TestReverseLines verifica que la reversa intercambia débitos y créditos y
// que el asiento resultante también cuadra.
func TestReverseLines_Intercambia(t *testing.T) {
	lines := []*entity.JournalLine{
		debit(entity.AccountCOGS, 8_000_000),
		credit(entity.AccountFinishedGoods, 8_000_000),
	}
	rev := ledger.ReverseLines(lines)
	require.Len(t, rev, 2)
	assert.True(t, rev[0].Credit.Equal(decimal.NewFromInt(8_000_000)))
	assert.True(t, rev[0].Debit.IsZero())
	assert.Equal(t, entity.AccountCOGS, rev[0].AccountCode)
	assert.NoError(t, ledger.CheckBalanced(rev))
}
