package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// ItemDrift describe la desincronización entre el caché de un ítem y la
// verdad derivada de sus capas (salud de inventario).
type ItemDrift struct {
	ItemID      string
	SKU         string
	CachedQty   string // cantidades como string decimal para reporte
	DerivedQty  string
	Discrepancy string // CachedQty - DerivedQty
}

// LayerRepository define el puerto de persistencia para capas de costo FIFO.
// Usado dentro de transacciones para garantizar consistencia.
type LayerRepository interface {
	// Create persiste la capa y rellena layer.Seq con el consecutivo asignado.
	Create(layer *entity.InventoryLayer) error
	GetByID(id string) (*entity.InventoryLayer, error)
	// GetForUpdate obtiene la capa bloqueando la fila (SELECT ... FOR UPDATE).
	GetForUpdate(id string) (*entity.InventoryLayer, error)
	// ListOpenForUpdate devuelve las capas vivas del ítem en orden FIFO
	// (received_at asc, seq asc) bloqueándolas con SELECT ... FOR UPDATE.
	// warehouseID vacío = todas las bodegas.
	ListOpenForUpdate(itemID, warehouseID string) ([]*entity.InventoryLayer, error)
	// ListOpen igual que ListOpenForUpdate pero sin bloqueo (lecturas/resync).
	ListOpen(itemID string) ([]*entity.InventoryLayer, error)
	// UpdateRemaining escribe remaining_qty e is_depleted de la capa.
	UpdateRemaining(layer *entity.InventoryLayer) error
	Delete(id string) error
	// CacheDrift lista los ítems de la empresa cuyo caché difiere de
	// Σ(remaining_qty) de sus capas.
	CacheDrift(companyID string) ([]*ItemDrift, error)
}
