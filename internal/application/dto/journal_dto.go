package dto

import "github.com/shopspring/decimal"

// CreateJournalEntryRequest body para POST /api/journal (asiento manual).
type CreateJournalEntryRequest struct {
	Date        string               `json:"date,omitempty"` // YYYY-MM-DD; vacío = hoy
	Description string               `json:"description" validate:"required,min=3,max=300"`
	Lines       []JournalLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// JournalLineRequest línea de asiento manual. Débito XOR crédito.
type JournalLineRequest struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalEntryResponse asiento contable con líneas.
type JournalEntryResponse struct {
	ID          string                `json:"id"`
	Number      string                `json:"number"`
	Date        string                `json:"date"`
	Description string                `json:"description"`
	DocType     string                `json:"doc_type,omitempty"`
	DocID       string                `json:"doc_id,omitempty"`
	ReversesID  string                `json:"reverses_id,omitempty"`
	ReversedBy  string                `json:"reversed_by,omitempty"`
	Lines       []JournalLineResponse `json:"lines"`
}

// JournalLineResponse línea de asiento.
type JournalLineResponse struct {
	ID          string          `json:"id"`
	AccountCode string          `json:"account_code"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalListResponse lista paginada de asientos.
type JournalListResponse struct {
	Items []JournalEntryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// AccountBalanceResponse saldo derivado de una cuenta.
type AccountBalanceResponse struct {
	AccountCode string          `json:"account_code"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Net         decimal.Decimal `json:"net"` // débitos - créditos
}
