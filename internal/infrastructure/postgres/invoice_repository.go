package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, customer_id, warehouse_id, number, date,
	status, net_total, tax_total, grand_total, cogs_total, notes, created_at,
	updated_at, created_by`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, customer_id, warehouse_id, number, date,
			status, net_total, tax_total, grand_total, cogs_total, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.CompanyID, inv.CustomerID, inv.WarehouseID, inv.Number, inv.Date,
		inv.Status, inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.COGSTotal,
		inv.Notes, inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste una línea.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, item_id, quantity, unit_price, tax_rate, subtotal, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ItemID, line.Quantity, line.UnitPrice,
		line.TaxRate, line.Subtotal, line.TaxAmount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// Update actualiza la cabecera (totales, notas).
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET net_total = $2, tax_total = $3, grand_total = $4,
			cogs_total = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.COGSTotal,
		inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado del documento.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	query := `UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	if err := scanInvoice(r.q.QueryRow(context.Background(), query, id), &inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetLines obtiene las líneas de la factura.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, item_id, quantity, unit_price, tax_rate, subtotal, tax_amount
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ItemID, &l.Quantity, &l.UnitPrice, &l.TaxRate, &l.Subtotal, &l.TaxAmount); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// DeleteLines borra las líneas (re-aplicación en ediciones).
func (r *InvoiceRepo) DeleteLines(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	return nil
}

// Delete elimina la cabecera.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// ListByCompany lista facturas de la empresa.
func (r *InvoiceRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices WHERE company_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(row pgx.Row, inv *entity.Invoice) error {
	return row.Scan(
		&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.WarehouseID, &inv.Number,
		&inv.Date, &inv.Status, &inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal,
		&inv.COGSTotal, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt, &inv.CreatedBy,
	)
}
