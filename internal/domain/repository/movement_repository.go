package repository

import (
	"time"

	"github.com/contaflow/erp-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de inventario.
type MovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// ListByDoc devuelve los movimientos generados por un documento, en orden
	// de creación; es la base de la reversa exacta en ediciones/eliminaciones.
	ListByDoc(docType, docID string) ([]*entity.InventoryMovement, error)
	DeleteByDoc(docType, docID string) error
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
}
