package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación de facturas de compra (transición solo admin).
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Bill representa una factura de compra a proveedor; cada línea recibe stock
// en una capa nueva al costo de compra.
type Bill struct {
	ID              string
	CompanyID       string
	VendorID        string
	WarehouseID     string
	PurchaseOrderID string // opcional: OC de origen
	Number          string
	Date            time.Time
	Status          string // ciclo OPEN/PARTIAL/PAID/CANCELLED
	ApprovalStatus  string // PENDING/APPROVED/REJECTED
	NetTotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	GrandTotal      decimal.Decimal
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

// BillLine es una línea de factura de compra.
type BillLine struct {
	ID        string
	BillID    string
	ItemID    string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TaxRate   decimal.Decimal
	Subtotal  decimal.Decimal // Quantity * UnitCost
	TaxAmount decimal.Decimal
}
