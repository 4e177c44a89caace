package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.LayerRepository = (*LayerRepo)(nil)

// LayerRepo implementación de LayerRepository sobre PostgreSQL.
// Las capas son la fuente de verdad del stock: el caché de items se deriva
// de Σ(remaining_qty).
type LayerRepo struct {
	q Querier
}

// NewLayerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLayerRepository(q Querier) *LayerRepo {
	return &LayerRepo{q: q}
}

const layerColumns = `id, seq, company_id, item_id, warehouse_id, batch_number,
	received_at, initial_qty, remaining_qty, unit_cost, is_depleted, reason,
	created_at, updated_at`

// Create persiste la capa y rellena layer.Seq con el consecutivo asignado
// por la secuencia de la tabla (desempate FIFO a igual received_at).
func (r *LayerRepo) Create(layer *entity.InventoryLayer) error {
	query := `
		INSERT INTO inventory_layers (id, company_id, item_id, warehouse_id, batch_number,
			received_at, initial_qty, remaining_qty, unit_cost, is_depleted, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(context.Background(), query,
		layer.ID, layer.CompanyID, layer.ItemID, layer.WarehouseID, layer.BatchNumber,
		layer.ReceivedAt, layer.InitialQty, layer.RemainingQty, layer.UnitCost,
		layer.IsDepleted, layer.Reason, layer.CreatedAt, layer.UpdatedAt,
	).Scan(&layer.Seq)
	if err != nil {
		return fmt.Errorf("insert layer: %w", err)
	}
	return nil
}

// GetByID obtiene una capa por ID.
func (r *LayerRepo) GetByID(id string) (*entity.InventoryLayer, error) {
	query := `SELECT ` + layerColumns + ` FROM inventory_layers WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la capa bloqueando la fila (SELECT ... FOR UPDATE).
func (r *LayerRepo) GetForUpdate(id string) (*entity.InventoryLayer, error) {
	query := `SELECT ` + layerColumns + ` FROM inventory_layers WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ListOpenForUpdate devuelve las capas vivas del ítem en orden FIFO
// (received_at asc, seq asc) bloqueándolas. warehouseID vacío = todas.
func (r *LayerRepo) ListOpenForUpdate(itemID, warehouseID string) ([]*entity.InventoryLayer, error) {
	query := `
		SELECT ` + layerColumns + `
		FROM inventory_layers
		WHERE item_id = $1 AND NOT is_depleted AND remaining_qty > 0
		  AND ($2 = '' OR warehouse_id = $2)
		ORDER BY received_at, seq
		FOR UPDATE`
	return r.list(query, itemID, warehouseID)
}

// ListOpen igual que ListOpenForUpdate pero sin bloqueo (lecturas y resync).
func (r *LayerRepo) ListOpen(itemID string) ([]*entity.InventoryLayer, error) {
	query := `
		SELECT ` + layerColumns + `
		FROM inventory_layers
		WHERE item_id = $1 AND NOT is_depleted AND remaining_qty > 0
		ORDER BY received_at, seq`
	return r.list(query, itemID)
}

// UpdateRemaining escribe remaining_qty e is_depleted.
func (r *LayerRepo) UpdateRemaining(layer *entity.InventoryLayer) error {
	query := `UPDATE inventory_layers SET remaining_qty = $2, is_depleted = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		layer.ID, layer.RemainingQty, layer.IsDepleted, layer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update layer remaining: %w", err)
	}
	return nil
}

// Delete elimina una capa (solo reversa de entradas intactas).
func (r *LayerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM inventory_layers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete layer: %w", err)
	}
	return nil
}

// CacheDrift compara el caché de cada ítem contra Σ(remaining_qty) de sus
// capas vivas y devuelve los que difieren.
func (r *LayerRepo) CacheDrift(companyID string) ([]*repository.ItemDrift, error) {
	query := `
		SELECT i.id, i.sku, i.quantity_on_hand::text, COALESCE(l.derived, 0)::text,
			(i.quantity_on_hand - COALESCE(l.derived, 0))::text
		FROM items i
		LEFT JOIN (
			SELECT item_id, SUM(remaining_qty) AS derived
			FROM inventory_layers
			WHERE NOT is_depleted
			GROUP BY item_id
		) l ON l.item_id = i.id
		WHERE i.company_id = $1 AND i.type <> 'SERVICE'
		  AND i.quantity_on_hand <> COALESCE(l.derived, 0)
		ORDER BY i.sku`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("cache drift: %w", err)
	}
	defer rows.Close()

	var drifts []*repository.ItemDrift
	for rows.Next() {
		var d repository.ItemDrift
		if err := rows.Scan(&d.ItemID, &d.SKU, &d.CachedQty, &d.DerivedQty, &d.Discrepancy); err != nil {
			return nil, fmt.Errorf("scan drift: %w", err)
		}
		drifts = append(drifts, &d)
	}
	return drifts, rows.Err()
}

func (r *LayerRepo) list(query string, args ...any) ([]*entity.InventoryLayer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	defer rows.Close()

	var layers []*entity.InventoryLayer
	for rows.Next() {
		var l entity.InventoryLayer
		if err := scanLayer(rows, &l); err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		layers = append(layers, &l)
	}
	return layers, rows.Err()
}

func (r *LayerRepo) scanOne(row pgx.Row) (*entity.InventoryLayer, error) {
	var l entity.InventoryLayer
	if err := scanLayer(row, &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get layer: %w", err)
	}
	return &l, nil
}

func scanLayer(row pgx.Row, l *entity.InventoryLayer) error {
	return row.Scan(
		&l.ID, &l.Seq, &l.CompanyID, &l.ItemID, &l.WarehouseID, &l.BatchNumber,
		&l.ReceivedAt, &l.InitialQty, &l.RemainingQty, &l.UnitCost, &l.IsDepleted,
		&l.Reason, &l.CreatedAt, &l.UpdatedAt,
	)
}
