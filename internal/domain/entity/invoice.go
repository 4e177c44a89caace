package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de documentos transaccionales.
// Un documento en estado terminal (PAID, CLOSED, CANCELLED) es inmutable.
const (
	DocStatusDraft     = "DRAFT"
	DocStatusOpen      = "OPEN"
	DocStatusPartial   = "PARTIAL"
	DocStatusPaid      = "PAID"
	DocStatusClosed    = "CLOSED"
	DocStatusCancelled = "CANCELLED"
)

// Editable indica si un estado permite editar o eliminar el documento.
func DocStatusEditable(status string) bool {
	return status == DocStatusDraft || status == DocStatusOpen
}

// Invoice representa la cabecera de una factura de venta.
type Invoice struct {
	ID          string
	CompanyID   string
	CustomerID  string
	WarehouseID string
	Number      string
	Date        time.Time
	Status      string // OPEN al crear; PARTIAL/PAID según pagos
	NetTotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	COGSTotal   decimal.Decimal // costo FIFO de las salidas de la factura
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// InvoiceLine es una línea de factura.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal // fracción
	Subtotal  decimal.Decimal // Quantity * UnitPrice
	TaxAmount decimal.Decimal
}
