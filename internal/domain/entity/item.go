package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de ítems del catálogo.
const (
	ItemTypeRawMaterial   = "RAW_MATERIAL"    // materia prima
	ItemTypeFinishedGood  = "FINISHED_GOOD"   // producto terminado
	ItemTypeWorkInProcess = "WORK_IN_PROCESS" // producto en proceso
	ItemTypeService       = "SERVICE"         // servicio (sin inventario)
)

// Métodos de valuación soportados.
const (
	ValuationFIFO = "FIFO"
)

// Item representa un ítem del catálogo (SKU) de una empresa.
// QuantityOnHand y AverageCost son caché denormalizado derivado de las capas
// de inventario: solo el libro de inventario los escribe, nunca la UI.
type Item struct {
	ID                   string
	CompanyID            string
	SKU                  string // código único por empresa
	Name                 string
	Description          string
	Type                 string // ver constantes ItemType*
	ValuationMethod      string // FIFO en uso observado
	Price                decimal.Decimal
	TaxRate              decimal.Decimal // fracción: 0, 0.05, 0.19
	RequiresInstallation bool            // venderlo dispara ticket de instalación
	QuantityOnHand       decimal.Decimal // caché: Σ remaining_qty de capas
	AverageCost          decimal.Decimal // caché: costo ponderado de capas vivas
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Stockable indica si el ítem lleva inventario físico.
func (i *Item) Stockable() bool {
	return i.Type != ItemTypeService
}
