package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo implementación de JournalRepository sobre PostgreSQL.
// Sin UPDATE ni DELETE sobre asientos contabilizados: el diario solo crece.
// La única mutación permitida es marcar reversed_by al reversar.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

const entryColumns = `id, company_id, number, date, description, doc_type, doc_id,
	COALESCE(reverses_id, ''), COALESCE(reversed_by, ''), created_at, created_by`

// CreateEntry persiste el asiento con todas sus líneas.
func (r *JournalRepo) CreateEntry(entry *entity.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, company_id, number, date, description,
			doc_type, doc_id, reverses_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.Number, entry.Date, entry.Description,
		entry.DocType, entry.DocID, entry.ReversesID, entry.CreatedAt, entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	lineQuery := `
		INSERT INTO journal_lines (id, entry_id, account_code, description, debit, credit)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, line := range entry.Lines {
		_, err := r.q.Exec(context.Background(), lineQuery,
			line.ID, line.EntryID, line.AccountCode, line.Description, line.Debit, line.Credit,
		)
		if err != nil {
			return fmt.Errorf("insert journal line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un asiento con sus líneas.
func (r *JournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = $1`
	entry, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil || entry == nil {
		return entry, err
	}
	if err := r.loadLines(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetActiveByDoc devuelve el asiento vigente de un documento: ni reversado
// ni asiento de reversa. nil si el documento no tiene asiento vigente.
func (r *JournalRepo) GetActiveByDoc(docType, docID string) (*entity.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE doc_type = $1 AND doc_id = $2
		  AND reversed_by IS NULL AND reverses_id IS NULL
		ORDER BY created_at DESC
		LIMIT 1`
	entry, err := r.scanOne(r.q.QueryRow(context.Background(), query, docType, docID))
	if err != nil || entry == nil {
		return entry, err
	}
	if err := r.loadLines(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// MarkReversed registra qué asiento reversó a entryID.
func (r *JournalRepo) MarkReversed(entryID, reversedByID string) error {
	query := `UPDATE journal_entries SET reversed_by = $2 WHERE id = $1 AND reversed_by IS NULL`
	tag, err := r.q.Exec(context.Background(), query, entryID, reversedByID)
	if err != nil {
		return fmt.Errorf("mark reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mark reversed: asiento %s ya reversado", entryID)
	}
	return nil
}

// ListByCompany lista asientos (con líneas) por rango de fechas.
func (r *JournalRepo) ListByCompany(companyID string, from, to *time.Time, limit, offset int) ([]*entity.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.JournalEntry
	for rows.Next() {
		var e entity.JournalEntry
		if err := scanEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := r.loadLines(e); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Balance suma débitos y créditos de una cuenta. El saldo siempre se deriva:
// no existe columna de saldo.
func (r *JournalRepo) Balance(companyID, accountCode string) (*repository.AccountBalance, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.company_id = $1 AND l.account_code = $2`
	bal := &repository.AccountBalance{AccountCode: accountCode}
	err := r.q.QueryRow(context.Background(), query, companyID, accountCode).Scan(&bal.Debits, &bal.Credits)
	if err != nil {
		return nil, fmt.Errorf("account balance: %w", err)
	}
	return bal, nil
}

// TrialBalance devuelve los saldos derivados de todas las cuentas con movimiento.
func (r *JournalRepo) TrialBalance(companyID string) ([]*repository.AccountBalance, error) {
	query := `
		SELECT l.account_code, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.company_id = $1
		GROUP BY l.account_code
		ORDER BY l.account_code`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("trial balance: %w", err)
	}
	defer rows.Close()

	var balances []*repository.AccountBalance
	for rows.Next() {
		var b repository.AccountBalance
		if err := rows.Scan(&b.AccountCode, &b.Debits, &b.Credits); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances = append(balances, &b)
	}
	return balances, rows.Err()
}

func (r *JournalRepo) loadLines(entry *entity.JournalEntry) error {
	query := `
		SELECT id, entry_id, account_code, description, debit, credit
		FROM journal_lines WHERE entry_id = $1 ORDER BY account_code, id`
	rows, err := r.q.Query(context.Background(), query, entry.ID)
	if err != nil {
		return fmt.Errorf("load journal lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.JournalLine
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountCode, &l.Description, &l.Debit, &l.Credit); err != nil {
			return fmt.Errorf("scan journal line: %w", err)
		}
		entry.Lines = append(entry.Lines, &l)
	}
	return rows.Err()
}

func (r *JournalRepo) scanOne(row pgx.Row) (*entity.JournalEntry, error) {
	var e entity.JournalEntry
	if err := scanEntry(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return &e, nil
}

func scanEntry(row pgx.Row, e *entity.JournalEntry) error {
	return row.Scan(
		&e.ID, &e.CompanyID, &e.Number, &e.Date, &e.Description, &e.DocType,
		&e.DocID, &e.ReversesID, &e.ReversedBy, &e.CreatedAt, &e.CreatedBy,
	)
}
