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

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL.
// La tabla no tiene columna de saldo: los saldos viven en el diario.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta del plan contable.
func (r *AccountRepo) Create(a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, company_id, code, name, type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.CompanyID, a.Code, a.Name, a.Type, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByCode obtiene una cuenta por código PUC dentro de la empresa.
func (r *AccountRepo) GetByCode(companyID, code string) (*entity.Account, error) {
	query := `
		SELECT id, company_id, code, name, type, is_active, created_at, updated_at
		FROM accounts WHERE company_id = $1 AND code = $2`
	var a entity.Account
	err := r.q.QueryRow(context.Background(), query, companyID, code).Scan(
		&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// ListByCompany lista el plan de cuentas.
func (r *AccountRepo) ListByCompany(companyID string) ([]*entity.Account, error) {
	query := `
		SELECT id, company_id, code, name, type, is_active, created_at, updated_at
		FROM accounts WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.Account
	for rows.Next() {
		var a entity.Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

// Update actualiza nombre, tipo y estado.
func (r *AccountRepo) Update(a *entity.Account) error {
	query := `UPDATE accounts SET name = $2, type = $3, is_active = $4, updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, a.ID, a.Name, a.Type, a.IsActive, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}
