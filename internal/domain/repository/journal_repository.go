package repository

import (
	"time"

	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AccountBalance es el saldo derivado de una cuenta: sumas de líneas, nunca
// estado mutable redundante.
type AccountBalance struct {
	AccountCode string
	Debits      decimal.Decimal
	Credits     decimal.Decimal
}

// Net devuelve débitos - créditos (positivo = saldo débito).
func (b AccountBalance) Net() decimal.Decimal {
	return b.Debits.Sub(b.Credits)
}

// JournalRepository define el puerto de persistencia del libro diario.
type JournalRepository interface {
	// CreateEntry persiste el asiento con todas sus líneas.
	CreateEntry(entry *entity.JournalEntry) error
	GetByID(id string) (*entity.JournalEntry, error)
	// GetActiveByDoc devuelve el asiento vigente (no reversado) de un documento.
	GetActiveByDoc(docType, docID string) (*entity.JournalEntry, error)
	// MarkReversed registra qué asiento reversó a entryID.
	MarkReversed(entryID, reversedByID string) error
	ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.JournalEntry, error)
	// Balance suma débitos y créditos de una cuenta de la empresa.
	Balance(companyID, accountCode string) (*AccountBalance, error)
	// TrialBalance devuelve los saldos de todas las cuentas con movimientos.
	TrialBalance(companyID string) ([]*AccountBalance, error)
}
