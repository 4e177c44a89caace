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

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo implementación de BillRepository sobre PostgreSQL.
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

const billColumns = `id, company_id, vendor_id, warehouse_id, COALESCE(purchase_order_id, ''),
	number, date, status, approval_status, net_total, tax_total, grand_total, notes,
	created_at, updated_at, created_by`

// Create persiste la cabecera de la compra.
func (r *BillRepo) Create(bill *entity.Bill) error {
	query := `
		INSERT INTO bills (id, company_id, vendor_id, warehouse_id, purchase_order_id,
			number, date, status, approval_status, net_total, tax_total, grand_total,
			notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		bill.ID, bill.CompanyID, bill.VendorID, bill.WarehouseID, bill.PurchaseOrderID,
		bill.Number, bill.Date, bill.Status, bill.ApprovalStatus, bill.NetTotal,
		bill.TaxTotal, bill.GrandTotal, bill.Notes, bill.CreatedAt, bill.UpdatedAt, bill.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// CreateLine persiste una línea.
func (r *BillRepo) CreateLine(line *entity.BillLine) error {
	query := `
		INSERT INTO bill_lines (id, bill_id, item_id, quantity, unit_cost, tax_rate, subtotal, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.BillID, line.ItemID, line.Quantity, line.UnitCost,
		line.TaxRate, line.Subtotal, line.TaxAmount,
	)
	if err != nil {
		return fmt.Errorf("insert bill line: %w", err)
	}
	return nil
}

// Update actualiza la cabecera (totales, notas).
func (r *BillRepo) Update(bill *entity.Bill) error {
	query := `
		UPDATE bills SET net_total = $2, tax_total = $3, grand_total = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		bill.ID, bill.NetTotal, bill.TaxTotal, bill.GrandTotal, bill.Notes, bill.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado del documento.
func (r *BillRepo) UpdateStatus(id, status string) error {
	query := `UPDATE bills SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update bill status: %w", err)
	}
	return nil
}

// UpdateApproval cambia el estado de aprobación.
func (r *BillRepo) UpdateApproval(id, approvalStatus string) error {
	query := `UPDATE bills SET approval_status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, approvalStatus)
	if err != nil {
		return fmt.Errorf("update bill approval: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera.
func (r *BillRepo) GetByID(id string) (*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`
	var b entity.Bill
	if err := scanBill(r.q.QueryRow(context.Background(), query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// GetLines obtiene las líneas de la compra.
func (r *BillRepo) GetLines(billID string) ([]*entity.BillLine, error) {
	query := `
		SELECT id, bill_id, item_id, quantity, unit_cost, tax_rate, subtotal, tax_amount
		FROM bill_lines WHERE bill_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, billID)
	if err != nil {
		return nil, fmt.Errorf("get bill lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.BillLine
	for rows.Next() {
		var l entity.BillLine
		if err := rows.Scan(&l.ID, &l.BillID, &l.ItemID, &l.Quantity, &l.UnitCost, &l.TaxRate, &l.Subtotal, &l.TaxAmount); err != nil {
			return nil, fmt.Errorf("scan bill line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// DeleteLines borra las líneas (re-aplicación en ediciones).
func (r *BillRepo) DeleteLines(billID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bill_lines WHERE bill_id = $1`, billID)
	if err != nil {
		return fmt.Errorf("delete bill lines: %w", err)
	}
	return nil
}

// Delete elimina la cabecera.
func (r *BillRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// ListByCompany lista compras de la empresa.
func (r *BillRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills WHERE company_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []*entity.Bill
	for rows.Next() {
		var b entity.Bill
		if err := scanBill(rows, &b); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, &b)
	}
	return bills, rows.Err()
}

func scanBill(row pgx.Row, b *entity.Bill) error {
	return row.Scan(
		&b.ID, &b.CompanyID, &b.VendorID, &b.WarehouseID, &b.PurchaseOrderID,
		&b.Number, &b.Date, &b.Status, &b.ApprovalStatus, &b.NetTotal, &b.TaxTotal,
		&b.GrandTotal, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.CreatedBy,
	)
}
