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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const poColumns = `id, company_id, vendor_id, warehouse_id, number, date, status,
	total, notes, created_at, updated_at, created_by`

// Create persiste la orden de compra.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, company_id, vendor_id, warehouse_id, number,
			date, status, total, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.CompanyID, po.VendorID, po.WarehouseID, po.Number, po.Date,
		po.Status, po.Total, po.Notes, po.CreatedAt, po.UpdatedAt, po.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea.
func (r *PurchaseOrderRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_order_lines (id, purchase_order_id, item_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseOrderID, line.ItemID, line.Quantity, line.UnitCost, line.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order line: %w", err)
	}
	return nil
}

// GetByID obtiene la orden.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + poColumns + ` FROM purchase_orders WHERE id = $1`
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&po.ID, &po.CompanyID, &po.VendorID, &po.WarehouseID, &po.Number, &po.Date,
		&po.Status, &po.Total, &po.Notes, &po.CreatedAt, &po.UpdatedAt, &po.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &po, nil
}

// GetLines obtiene las líneas de la orden.
func (r *PurchaseOrderRepo) GetLines(poID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, purchase_order_id, item_id, quantity, unit_cost, subtotal
		FROM purchase_order_lines WHERE purchase_order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, poID)
	if err != nil {
		return nil, fmt.Errorf("get purchase order lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.Quantity, &l.UnitCost, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de la empresa.
func (r *PurchaseOrderRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT ` + poColumns + `
		FROM purchase_orders WHERE company_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.CompanyID, &po.VendorID, &po.WarehouseID, &po.Number, &po.Date,
			&po.Status, &po.Total, &po.Notes, &po.CreatedAt, &po.UpdatedAt, &po.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		pos = append(pos, &po)
	}
	return pos, rows.Err()
}
