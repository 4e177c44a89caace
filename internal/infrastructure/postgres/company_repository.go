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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, tax_id, business_type, address, phone, email, status, created_at, updated_at`

// Create persiste una empresa.
func (r *CompanyRepo) Create(c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, tax_id, business_type, address, phone, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.TaxID, c.BusinessType, c.Address, c.Phone, c.Email, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.BusinessType, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos de la empresa.
func (r *CompanyRepo) Update(c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, tax_id = $3, business_type = $4, address = $5,
			phone = $6, email = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, c.TaxID, c.BusinessType, c.Address, c.Phone, c.Email, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.BusinessType, &c.Address, &c.Phone, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

// HasActiveModule indica si la empresa tiene el módulo activo y no vencido.
func (r *CompanyRepo) HasActiveModule(companyID, moduleName string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM company_modules
			WHERE company_id = $1 AND module_name = $2 AND is_active
			  AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	err := r.q.QueryRow(context.Background(), query, companyID, moduleName).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("has active module: %w", err)
	}
	return active, nil
}

// ListModules lista los módulos de la empresa.
func (r *CompanyRepo) ListModules(companyID string) ([]*entity.CompanyModule, error) {
	query := `
		SELECT id, company_id, module_name, is_active, activated_at, expires_at, created_at, updated_at
		FROM company_modules WHERE company_id = $1 ORDER BY module_name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company modules: %w", err)
	}
	defer rows.Close()

	var modules []*entity.CompanyModule
	for rows.Next() {
		var m entity.CompanyModule
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company module: %w", err)
		}
		modules = append(modules, &m)
	}
	return modules, rows.Err()
}

// ActivateModule activa (o reactiva) un módulo vía upsert.
func (r *CompanyRepo) ActivateModule(m *entity.CompanyModule) error {
	query := `
		INSERT INTO company_modules (id, company_id, module_name, is_active, activated_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, module_name)
		DO UPDATE SET is_active = EXCLUDED.is_active, activated_at = EXCLUDED.activated_at,
			expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ModuleName, m.IsActive, m.ActivatedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("activate module: %w", err)
	}
	return nil
}
