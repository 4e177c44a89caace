package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/erp-api/internal/domain"
	"github.com/contaflow/erp-api/internal/domain/entity"
	"github.com/contaflow/erp-api/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

// Create persiste un proveedor.
func (r *VendorRepo) Create(v *entity.Vendor) error {
	query := `
		INSERT INTO vendors (id, company_id, name, tax_id, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.CompanyID, v.Name, v.TaxID, v.Email, v.Phone, v.Address, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor.
func (r *VendorRepo) GetByID(id string) (*entity.Vendor, error) {
	query := `
		SELECT id, company_id, name, tax_id, email, phone, address, created_at, updated_at
		FROM vendors WHERE id = $1`
	var v entity.Vendor
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&v.ID, &v.CompanyID, &v.Name, &v.TaxID, &v.Email, &v.Phone, &v.Address, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// Update actualiza los datos del proveedor.
func (r *VendorRepo) Update(v *entity.Vendor) error {
	query := `
		UPDATE vendors SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.Name, v.TaxID, v.Email, v.Phone, v.Address, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vendor: %w", err)
	}
	return nil
}

// ListByCompany lista los proveedores de la empresa.
func (r *VendorRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error) {
	query := `
		SELECT id, company_id, name, tax_id, email, phone, address, created_at, updated_at
		FROM vendors WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []*entity.Vendor
	for rows.Next() {
		var v entity.Vendor
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.TaxID, &v.Email, &v.Phone, &v.Address, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, &v)
	}
	return vendors, rows.Err()
}

// Delete elimina un proveedor. Si tiene compras asociadas retorna ErrConflict.
func (r *VendorRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}
