package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry agrupa líneas débito/crédito balanceadas de una transacción.
// Inmutable después de contabilizar; las correcciones se hacen con un asiento
// de reversa explícito (ReversesID apunta al asiento original).
type JournalEntry struct {
	ID          string
	CompanyID   string
	Number      string // consecutivo legible, ej. "AS-2024-000123"
	Date        time.Time
	Description string
	DocType     string // documento origen (DocType*), vacío en asientos manuales
	DocID       string
	ReversesID  string // ID del asiento que este reversa; vacío si no es reversa
	ReversedBy  string // ID del asiento que reversó este; vacío si sigue vigente
	Lines       []*JournalLine
	CreatedAt   time.Time
	CreatedBy   string
}

// JournalLine es una línea de asiento: débito XOR crédito sobre una cuenta.
type JournalLine struct {
	ID          string
	EntryID     string
	AccountCode string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// TotalDebits suma los débitos del asiento.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredits suma los créditos del asiento.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}
