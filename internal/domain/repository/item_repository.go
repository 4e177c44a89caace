package repository

import (
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// UpdateCache es de uso exclusivo del libro de inventario: la UI nunca
// escribe quantity_on_hand ni average_cost directamente.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error)
	Update(item *entity.Item) error
	UpdateCache(itemID string, quantityOnHand, averageCost decimal.Decimal) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error)
	Delete(id string) error
}
