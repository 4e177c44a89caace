package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRun representa una orden de producción: consume materias primas
// (salidas FIFO) y produce una capa de producto terminado cuyo costo unitario
// es el costo acumulado de los consumos dividido por la cantidad producida.
type ProductionRun struct {
	ID           string
	CompanyID    string
	WarehouseID  string
	OutputItemID string
	OutputQty    decimal.Decimal
	TotalCost    decimal.Decimal // Σ costo FIFO de los insumos consumidos
	Number       string
	Date         time.Time
	Status       string // OPEN -> CLOSED/CANCELLED
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CreatedBy    string
}

// ProductionInput es un insumo consumido por la orden de producción.
type ProductionInput struct {
	ID              string
	ProductionRunID string
	ItemID          string
	Quantity        decimal.Decimal
	TotalCost       decimal.Decimal // costo FIFO real del consumo
}
