package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo implementación de TicketRepository sobre PostgreSQL.
// El constraint único sobre invoice_id garantiza máximo un ticket por factura.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketColumns = `id, company_id, customer_id, invoice_id, number, status,
	notes, created_at, updated_at, created_by`

// CreateTicket persiste el ticket de servicio.
func (r *TicketRepo) CreateTicket(t *entity.ServiceTicket) error {
	query := `
		INSERT INTO service_tickets (id, company_id, customer_id, invoice_id, number,
			status, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.CompanyID, t.CustomerID, t.InvoiceID, t.Number, t.Status,
		t.Notes, t.CreatedAt, t.UpdatedAt, t.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert service ticket: %w", err)
	}
	return nil
}

// CreateAsset persiste un activo de cliente.
func (r *TicketRepo) CreateAsset(a *entity.CustomerAsset) error {
	query := `
		INSERT INTO customer_assets (id, company_id, customer_id, ticket_id,
			invoice_line_id, item_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CompanyID, a.CustomerID, a.TicketID, a.InvoiceLineID, a.ItemID,
		a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer asset: %w", err)
	}
	return nil
}

// GetTicketByID obtiene un ticket.
func (r *TicketRepo) GetTicketByID(id string) (*entity.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetTicketByInvoice devuelve el ticket de la factura (máximo uno) o nil.
func (r *TicketRepo) GetTicketByInvoice(invoiceID string) (*entity.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE invoice_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, invoiceID))
}

// ListAssetsByTicket lista los activos de un ticket.
func (r *TicketRepo) ListAssetsByTicket(ticketID string) ([]*entity.CustomerAsset, error) {
	query := `
		SELECT id, company_id, customer_id, ticket_id, invoice_line_id, item_id,
			status, created_at, updated_at
		FROM customer_assets WHERE ticket_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list customer assets: %w", err)
	}
	defer rows.Close()

	var assets []*entity.CustomerAsset
	for rows.Next() {
		var a entity.CustomerAsset
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.CustomerID, &a.TicketID, &a.InvoiceLineID,
			&a.ItemID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer asset: %w", err)
		}
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

// ListTicketsByCompany lista los tickets de la empresa.
func (r *TicketRepo) ListTicketsByCompany(companyID string, limit, offset int) ([]*entity.ServiceTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM service_tickets WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list service tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.ServiceTicket
	for rows.Next() {
		var t entity.ServiceTicket
		if err := scanTicket(rows, &t); err != nil {
			return nil, fmt.Errorf("scan service ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}

// DeleteByInvoice elimina el ticket de la factura y sus activos (reversa).
func (r *TicketRepo) DeleteByInvoice(invoiceID string) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		DELETE FROM customer_assets
		WHERE ticket_id IN (SELECT id FROM service_tickets WHERE invoice_id = $1)`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete customer assets by invoice: %w", err)
	}
	_, err = r.q.Exec(ctx, `DELETE FROM service_tickets WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete service ticket by invoice: %w", err)
	}
	return nil
}

func (r *TicketRepo) scanOne(row pgx.Row) (*entity.ServiceTicket, error) {
	var t entity.ServiceTicket
	if err := scanTicket(row, &t); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service ticket: %w", err)
	}
	return &t, nil
}

func scanTicket(row pgx.Row, t *entity.ServiceTicket) error {
	return row.Scan(
		&t.ID, &t.CompanyID, &t.CustomerID, &t.InvoiceID, &t.Number, &t.Status,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy,
	)
}
