package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, description, type, valuation_method,
	price, tax_rate, requires_installation, quantity_on_hand, average_cost,
	created_at, updated_at`

// Create persiste un ítem nuevo. El caché de stock inicia en cero.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, company_id, sku, name, description, type, valuation_method,
			price, tax_rate, requires_installation, quantity_on_hand, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Description, item.Type,
		item.ValuationMethod, item.Price, item.TaxRate, item.RequiresInstallation,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCompanyAndSKU obtiene un ítem por SKU dentro de la empresa.
func (r *ItemRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND sku = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, sku))
}

// Update actualiza los campos editables; el caché no se toca aquí.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, price = $4, tax_rate = $5,
			requires_installation = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Description, item.Price, item.TaxRate,
		item.RequiresInstallation, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateCache escribe el caché denormalizado derivado de las capas vivas.
// Uso exclusivo del libro de inventario.
func (r *ItemRepo) UpdateCache(itemID string, quantityOnHand, averageCost decimal.Decimal) error {
	query := `UPDATE items SET quantity_on_hand = $2, average_cost = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, itemID, quantityOnHand, averageCost)
	if err != nil {
		return fmt.Errorf("update item cache: %w", err)
	}
	return nil
}

// ListByCompany lista los ítems de la empresa con paginación.
func (r *ItemRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// Delete elimina un ítem. Si tiene capas o documentos retorna ErrConflict.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *ItemRepo) scanOne(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := scanItem(row, &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func scanItem(row pgx.Row, it *entity.Item) error {
	return row.Scan(
		&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Description, &it.Type,
		&it.ValuationMethod, &it.Price, &it.TaxRate, &it.RequiresInstallation,
		&it.QuantityOnHand, &it.AverageCost, &it.CreatedAt, &it.UpdatedAt,
	)
}
