package entity

import "time"

// Vendor representa un proveedor de la empresa (compras).
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
