package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder representa una orden de compra. No mueve inventario ni
// contabilidad por sí misma: las facturas de compra pueden referenciarla.
type PurchaseOrder struct {
	ID          string
	CompanyID   string
	VendorID    string
	WarehouseID string
	Number      string
	Date        time.Time
	Status      string // DRAFT -> OPEN -> CLOSED/CANCELLED
	Total       decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedBy   string
}

// PurchaseOrderLine es una línea de orden de compra.
type PurchaseOrderLine struct {
	ID              string
	PurchaseOrderID string
	ItemID          string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	Subtotal        decimal.Decimal
}
