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

var _ repository.ProductionRunRepository = (*ProductionRunRepo)(nil)

// ProductionRunRepo implementación de ProductionRunRepository sobre PostgreSQL.
type ProductionRunRepo struct {
	q Querier
}

// NewProductionRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRunRepository(q Querier) *ProductionRunRepo {
	return &ProductionRunRepo{q: q}
}

const runColumns = `id, company_id, warehouse_id, output_item_id, output_qty,
	total_cost, number, date, status, notes, created_at, updated_at, created_by`

// Create persiste la orden de producción.
func (r *ProductionRunRepo) Create(run *entity.ProductionRun) error {
	query := `
		INSERT INTO production_runs (id, company_id, warehouse_id, output_item_id,
			output_qty, total_cost, number, date, status, notes, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		run.ID, run.CompanyID, run.WarehouseID, run.OutputItemID, run.OutputQty,
		run.TotalCost, run.Number, run.Date, run.Status, run.Notes,
		run.CreatedAt, run.UpdatedAt, run.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production run: %w", err)
	}
	return nil
}

// CreateInput persiste un insumo consumido.
func (r *ProductionRunRepo) CreateInput(input *entity.ProductionInput) error {
	query := `
		INSERT INTO production_inputs (id, production_run_id, item_id, quantity, total_cost)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		input.ID, input.ProductionRunID, input.ItemID, input.Quantity, input.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("insert production input: %w", err)
	}
	return nil
}

// GetByID obtiene la orden.
func (r *ProductionRunRepo) GetByID(id string) (*entity.ProductionRun, error) {
	query := `SELECT ` + runColumns + ` FROM production_runs WHERE id = $1`
	var run entity.ProductionRun
	if err := scanRun(r.q.QueryRow(context.Background(), query, id), &run); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production run: %w", err)
	}
	return &run, nil
}

// GetInputs obtiene los insumos de la orden.
func (r *ProductionRunRepo) GetInputs(runID string) ([]*entity.ProductionInput, error) {
	query := `
		SELECT id, production_run_id, item_id, quantity, total_cost
		FROM production_inputs WHERE production_run_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, runID)
	if err != nil {
		return nil, fmt.Errorf("get production inputs: %w", err)
	}
	defer rows.Close()

	var inputs []*entity.ProductionInput
	for rows.Next() {
		var in entity.ProductionInput
		if err := rows.Scan(&in.ID, &in.ProductionRunID, &in.ItemID, &in.Quantity, &in.TotalCost); err != nil {
			return nil, fmt.Errorf("scan production input: %w", err)
		}
		inputs = append(inputs, &in)
	}
	return inputs, rows.Err()
}

// ListByCompany lista órdenes de la empresa.
func (r *ProductionRunRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ProductionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM production_runs WHERE company_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list production runs: %w", err)
	}
	defer rows.Close()

	var runs []*entity.ProductionRun
	for rows.Next() {
		var run entity.ProductionRun
		if err := scanRun(rows, &run); err != nil {
			return nil, fmt.Errorf("scan production run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row, run *entity.ProductionRun) error {
	return row.Scan(
		&run.ID, &run.CompanyID, &run.WarehouseID, &run.OutputItemID, &run.OutputQty,
		&run.TotalCost, &run.Number, &run.Date, &run.Status, &run.Notes,
		&run.CreatedAt, &run.UpdatedAt, &run.CreatedBy,
	)
}
