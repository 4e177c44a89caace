package repository

import "github.com/contaflow/erp-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
	Delete(id string) error
}

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	Update(customer *entity.Customer) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error)
	Delete(id string) error
}

// VendorRepository define el puerto de persistencia para proveedores.
type VendorRepository interface {
	Create(vendor *entity.Vendor) error
	GetByID(id string) (*entity.Vendor, error)
	Update(vendor *entity.Vendor) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Vendor, error)
	Delete(id string) error
}

// UserRepository define el puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	Update(user *entity.User) error
}

// CompanyRepository define el puerto de persistencia para empresas y sus módulos.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
	// HasActiveModule indica si la empresa tiene el módulo activo y vigente.
	HasActiveModule(companyID, moduleName string) (bool, error)
	ListModules(companyID string) ([]*entity.CompanyModule, error)
	ActivateModule(module *entity.CompanyModule) error
}
