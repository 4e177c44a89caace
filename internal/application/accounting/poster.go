package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/erp-api/internal/application/dto"
	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/ledger"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Poster es la única puerta de entrada al libro mayor: valida que cada
// asiento cuadre (Σ débitos == Σ créditos, exacto) antes de persistirlo.
// Los asientos publicados son inmutables; deshacer un documento genera un
// asiento de reversa enlazado, nunca un UPDATE ni un DELETE.
type Poster struct {
	txRunner    repository.TxRunner
	journalRepo repository.JournalRepository
}

func NewPoster(txRunner repository.TxRunner, journalRepo repository.JournalRepository) *Poster {
	return &Poster{txRunner: txRunner, journalRepo: journalRepo}
}

// PostInTx valida y persiste un asiento con los repos del caller (misma
// transacción que el documento que lo origina). Retorna ErrUnbalancedEntry
// sin escribir nada si el asiento no cuadra.
func (p *Poster) PostInTx(r *repository.Tx, companyID, userID, docType, docID, description string, date time.Time, lines []*entity.JournalLine) (*entity.JournalEntry, error) {
	if err := ledger.CheckBalanced(lines); err != nil {
		return nil, err
	}
	entry := &entity.JournalEntry{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Number:      entryNumber(date),
		Date:        date,
		Description: description,
		DocType:     docType,
		DocID:       docID,
		Lines:       lines,
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}
	for _, line := range entry.Lines {
		line.ID = uuid.New().String()
		line.EntryID = entry.ID
	}
	if err := r.Journal.CreateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ReverseDocInTx busca el asiento vigente del documento y publica un asiento
// espejo (débitos y créditos intercambiados), marcando el original como
// reversado. Un documento sin asiento vigente es un no-op: una segunda
// reversa no duplica nada.
func (p *Poster) ReverseDocInTx(r *repository.Tx, userID, docType, docID, description string, date time.Time) error {
	original, err := r.Journal.GetActiveByDoc(docType, docID)
	if err != nil {
		return err
	}
	if original == nil {
		return nil
	}
	reversal := &entity.JournalEntry{
		ID:          uuid.New().String(),
		CompanyID:   original.CompanyID,
		Number:      entryNumber(date),
		Date:        date,
		Description: description,
		DocType:     docType,
		DocID:       docID,
		ReversesID:  original.ID,
		Lines:       ledger.ReverseLines(original.Lines),
		CreatedAt:   time.Now(),
		CreatedBy:   userID,
	}
	for _, line := range reversal.Lines {
		line.ID = uuid.New().String()
		line.EntryID = reversal.ID
	}
	if err := r.Journal.CreateEntry(reversal); err != nil {
		return err
	}
	return r.Journal.MarkReversed(original.ID, reversal.ID)
}

// PostManual publica un asiento manual (sin documento origen) en su propia
// transacción. Lo usa el endpoint de asientos del contador.
func (p *Poster) PostManual(ctx context.Context, companyID, userID, description string, date time.Time, lines []*entity.JournalLine) (*dto.JournalEntryResponse, error) {
	var entry *entity.JournalEntry
	err := p.txRunner.Run(ctx, func(r *repository.Tx) error {
		var err error
		entry, err = p.PostInTx(r, companyID, userID, "", "", description, date, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(entry), nil
}

// GetEntry retorna un asiento con sus líneas, validando pertenencia.
func (p *Poster) GetEntry(ctx context.Context, companyID, entryID string) (*dto.JournalEntryResponse, error) {
	entry, err := p.journalRepo.GetByID(entryID)
	if err != nil || entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return ToEntryResponse(entry), nil
}

// ListEntries lista los asientos de la empresa en un rango de fechas.
func (p *Poster) ListEntries(ctx context.Context, companyID string, from, to *time.Time, page dto.PageRequest) (*dto.JournalListResponse, error) {
	page.DefaultPage()
	entries, err := p.journalRepo.ListByCompany(companyID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	resp := &dto.JournalListResponse{
		Items: make([]dto.JournalEntryResponse, 0, len(entries)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, *ToEntryResponse(e))
	}
	return resp, nil
}

// AccountBalance deriva el saldo de una cuenta sumando sus líneas activas.
// Nunca se lee de un campo cacheado: el saldo siempre sale del diario.
func (p *Poster) AccountBalance(ctx context.Context, companyID, accountCode string) (*dto.AccountBalanceResponse, error) {
	bal, err := p.journalRepo.Balance(companyID, accountCode)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		bal = &repository.AccountBalance{AccountCode: accountCode, Debits: decimal.Zero, Credits: decimal.Zero}
	}
	return &dto.AccountBalanceResponse{
		AccountCode: bal.AccountCode,
		Debits:      bal.Debits,
		Credits:     bal.Credits,
		Net:         bal.Net(),
	}, nil
}

// TrialBalance retorna el balance de comprobación: saldos derivados de todas
// las cuentas con movimiento.
func (p *Poster) TrialBalance(ctx context.Context, companyID string) ([]dto.AccountBalanceResponse, error) {
	balances, err := p.journalRepo.TrialBalance(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountBalanceResponse, 0, len(balances))
	for _, bal := range balances {
		out = append(out, dto.AccountBalanceResponse{
			AccountCode: bal.AccountCode,
			Debits:      bal.Debits,
			Credits:     bal.Credits,
			Net:         bal.Net(),
		})
	}
	return out, nil
}

// ToEntryResponse mapea un asiento a su DTO.
func ToEntryResponse(e *entity.JournalEntry) *dto.JournalEntryResponse {
	resp := &dto.JournalEntryResponse{
		ID:          e.ID,
		Number:      e.Number,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
		DocType:     e.DocType,
		DocID:       e.DocID,
		ReversesID:  e.ReversesID,
		ReversedBy:  e.ReversedBy,
		Lines:       make([]dto.JournalLineResponse, 0, len(e.Lines)),
	}
	for _, l := range e.Lines {
		resp.Lines = append(resp.Lines, dto.JournalLineResponse{
			ID:          l.ID,
			AccountCode: l.AccountCode,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
		})
	}
	return resp
}

func entryNumber(date time.Time) string {
	return fmt.Sprintf("JE-%s-%s", date.Format("20060102"), uuid.New().String()[:8])
}
