package postgres

import (
	"context"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el juego completo de repos
// atados a la tx y hace Commit o Rollback. Es la unidad de atomicidad de
// todos los escritores de transacciones.
func (r *TxRunner) Run(ctx context.Context, fn func(repos *repository.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := &repository.Tx{
		Items:          NewItemRepository(tx),
		Layers:         NewLayerRepository(tx),
		Movements:      NewMovementRepository(tx),
		Journal:        NewJournalRepository(tx),
		Invoices:       NewInvoiceRepository(tx),
		Bills:          NewBillRepository(tx),
		PurchaseOrders: NewPurchaseOrderRepository(tx),
		ProductionRuns: NewProductionRunRepository(tx),
		Tickets:        NewTicketRepository(tx),
		Reset:          NewResetRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
