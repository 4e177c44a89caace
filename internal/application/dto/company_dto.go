package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (tenant).
type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	TaxID        string `json:"tax_id"`
	BusinessType string `json:"business_type" validate:"required,oneof=manufactura mayorista retail servicios"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
}

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TaxID        string    `json:"tax_id"`
	BusinessType string    `json:"business_type"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompanyModuleResponse módulo activo de una empresa.
type CompanyModuleResponse struct {
	ModuleName  string     `json:"module_name"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt time.Time  `json:"activated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// ActivateModuleRequest body para activar un módulo en la empresa.
type ActivateModuleRequest struct {
	ModuleName string     `json:"module_name" validate:"required,oneof=inventory billing purchasing manufacturing accounting service"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
