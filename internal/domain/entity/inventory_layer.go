package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLayer representa una recepción concreta de stock (lote de costo FIFO).
// Invariante: 0 <= RemainingQty <= InitialQty; IsDepleted cuando RemainingQty llega a cero.
// Solo el libro de inventario crea y decrementa capas; el resto de componentes
// pide entradas/salidas a través de él.
type InventoryLayer struct {
	ID           string
	Seq          int64 // consecutivo de inserción; desempate FIFO a igual fecha
	CompanyID    string
	ItemID       string
	WarehouseID  string
	BatchNumber  string
	ReceivedAt   time.Time
	InitialQty   decimal.Decimal
	RemainingQty decimal.Decimal
	UnitCost     decimal.Decimal
	IsDepleted   bool
	Reason       string // vacío para recepciones normales; etiqueta en ajustes
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
