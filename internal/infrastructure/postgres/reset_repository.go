package postgres

import (
	"context"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain/repository"
)

var _ repository.ResetRepository = (*ResetRepo)(nil)

// ResetRepo implementación de ResetRepository sobre PostgreSQL. Borra los
// datos transaccionales de la empresa en orden de dependencias y deja el
// caché de los ítems en cero. Los maestros no se tocan.
type ResetRepo struct {
	q Querier
}

// NewResetRepository construye el adaptador. Usar siempre dentro de TxRunner.Run.
func NewResetRepository(q Querier) *ResetRepo {
	return &ResetRepo{q: q}
}

// DeleteTransactionalData ejecuta el borrado completo.
func (r *ResetRepo) DeleteTransactionalData(companyID string) error {
	ctx := context.Background()
	statements := []string{
		`DELETE FROM customer_assets WHERE company_id = $1`,
		`DELETE FROM service_tickets WHERE company_id = $1`,
		`DELETE FROM journal_lines WHERE entry_id IN (SELECT id FROM journal_entries WHERE company_id = $1)`,
		`DELETE FROM journal_entries WHERE company_id = $1`,
		`DELETE FROM inventory_movements WHERE company_id = $1`,
		`DELETE FROM inventory_layers WHERE company_id = $1`,
		`DELETE FROM invoice_lines WHERE invoice_id IN (SELECT id FROM invoices WHERE company_id = $1)`,
		`DELETE FROM invoices WHERE company_id = $1`,
		`DELETE FROM bill_lines WHERE bill_id IN (SELECT id FROM bills WHERE company_id = $1)`,
		`DELETE FROM bills WHERE company_id = $1`,
		`DELETE FROM purchase_order_lines WHERE purchase_order_id IN (SELECT id FROM purchase_orders WHERE company_id = $1)`,
		`DELETE FROM purchase_orders WHERE company_id = $1`,
		`DELETE FROM production_inputs WHERE production_run_id IN (SELECT id FROM production_runs WHERE company_id = $1)`,
		`DELETE FROM production_runs WHERE company_id = $1`,
		`UPDATE items SET quantity_on_hand = 0, average_cost = 0, updated_at = now() WHERE company_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := r.q.Exec(ctx, stmt, companyID); err != nil {
			return fmt.Errorf("reset transactional data: %w", err)
		}
	}
	return nil
}
