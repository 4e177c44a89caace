package repository

import "context"

// Tx agrupa los repositorios atados a UNA transacción de base de datos.
// Todo escritor de transacciones (factura, compra, producción, ajuste,
// reset) trabaja exclusivamente contra estos repos dentro de TxRunner.Run.
type Tx struct {
	Items          ItemRepository
	Layers         LayerRepository
	Movements      MovementRepository
	Journal        JournalRepository
	Invoices       InvoiceRepository
	Bills          BillRepository
	PurchaseOrders PurchaseOrderRepository
	ProductionRuns ProductionRunRepository
	Tickets        TicketRepository
	Reset          ResetRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repos atados a esa
// tx; Commit si fn retorna nil, Rollback en cualquier error. Es la unidad de
// atomicidad del sistema: nada parcial persiste jamás.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Tx) error) error
}
