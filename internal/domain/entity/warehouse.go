package entity

import "time"

// Warehouse es una bodega o sucursal donde viven capas de inventario.
// Las transferencias mueven stock entre bodegas sin alterar costo ni
// antigüedad FIFO; Code es el identificador corto que se usa en reportes.
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
