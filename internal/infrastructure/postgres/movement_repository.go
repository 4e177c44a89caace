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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, item_id, warehouse_id, layer_id, type,
	quantity, unit_cost, total_cost, doc_type, doc_id, date, created_at, created_by`

// Create persiste el movimiento.
func (r *MovementRepo) Create(m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, company_id, item_id, warehouse_id, layer_id,
			type, quantity, unit_cost, total_cost, doc_type, doc_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ItemID, m.WarehouseID, m.LayerID, m.Type,
		m.Quantity, m.UnitCost, m.TotalCost, m.DocType, m.DocID, m.Date,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	var m entity.InventoryMovement
	if err := scanMovement(r.q.QueryRow(context.Background(), query, id), &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByDoc devuelve los movimientos de un documento en orden de creación.
func (r *MovementRepo) ListByDoc(docType, docID string) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE doc_type = $1 AND doc_id = $2
		ORDER BY created_at, id`
	return r.list(query, docType, docID)
}

// DeleteByDoc elimina los movimientos de un documento (reversa exacta).
func (r *MovementRepo) DeleteByDoc(docType, docID string) error {
	query := `DELETE FROM inventory_movements WHERE doc_type = $1 AND doc_id = $2`
	_, err := r.q.Exec(context.Background(), query, docType, docID)
	if err != nil {
		return fmt.Errorf("delete movements by doc: %w", err)
	}
	return nil
}

// ListByItem devuelve el kardex de un ítem con filtro de fechas opcional.
func (r *MovementRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE item_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(query, itemID, from, to, limit, offset)
}

// ListByWarehouse devuelve los movimientos de una bodega con filtro de fechas opcional.
func (r *MovementRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE warehouse_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(query, warehouseID, from, to, limit, offset)
}

func (r *MovementRepo) list(query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movs []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := scanMovement(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movs = append(movs, &m)
	}
	return movs, rows.Err()
}

func scanMovement(row pgx.Row, m *entity.InventoryMovement) error {
	return row.Scan(
		&m.ID, &m.CompanyID, &m.ItemID, &m.WarehouseID, &m.LayerID, &m.Type,
		&m.Quantity, &m.UnitCost, &m.TotalCost, &m.DocType, &m.DocID, &m.Date,
		&m.CreatedAt, &m.CreatedBy,
	)
}
