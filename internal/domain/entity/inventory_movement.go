package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada (compra, producción, ajuste+)
	MovementTypeOUT        = "OUT"        // salida (venta, consumo, ajuste-)
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
)

// Tipos de documento origen de un movimiento (trazabilidad y reversa).
const (
	DocTypeInvoice       = "INVOICE"
	DocTypeBill          = "BILL"
	DocTypeProductionRun = "PRODUCTION_RUN"
	DocTypeAdjustment    = "ADJUSTMENT"
	DocTypeTransfer      = "TRANSFER"
)

// InventoryMovement es el rastro auditable de cada mutación de capas.
// LayerID apunta a la capa creada (IN) o decrementada (OUT); con él la reversa
// de un documento restaura exactamente las capas que tocó, sin recalcular FIFO.
type InventoryMovement struct {
	ID          string
	CompanyID   string
	ItemID      string
	WarehouseID string
	LayerID     string
	Type        string          // IN, OUT, ADJUSTMENT, TRANSFER
	Quantity    decimal.Decimal // positiva en entradas, negativa en salidas
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	DocType     string // documento origen (ver constantes DocType*)
	DocID       string
	Date        time.Time
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
