package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/admin"
	"github.com/contaflow/erp-api/internal/application/auth"
	"github.com/contaflow/erp-api/internal/application/billing"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/application/manufacturing"
	"github.com/contaflow/erp-api/internal/application/purchasing"
	"github.com/contaflow/erp-api/internal/application/usecase"
	"github.com/contaflow/erp-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	AccountUC    *usecase.AccountUseCase
	ItemUC       *usecase.ItemUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	CustomerUC   *usecase.CustomerUseCase
	VendorUC     *usecase.VendorUseCase
	TicketUC     *usecase.TicketUseCase
	StockUC      *inventory.StockLedgerUseCase
	HealthUC     *inventory.HealthUseCase
	InvoiceUC    *billing.InvoiceUseCase
	BillUC       *purchasing.BillUseCase
	POUC         *purchasing.PurchaseOrderUseCase
	ProductionUC *manufacturing.ProductionRunUseCase
	Poster       *accounting.Poster
	ResetUC      *admin.ResetUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Cada grupo de negocio queda detrás
// de AuthMiddleware y del RequireModule correspondiente; las operaciones
// destructivas exigen además rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: el alta es pública (bootstrap); módulos requieren token.
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.AccountUC)
	companies := api.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/modules", AuthMiddleware(deps.JWTSecret), companyHandler.ListModules)
	companies.Post("/modules", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), companyHandler.ActivateModule)
	companies.Get("/:id", AuthMiddleware(deps.JWTSecret), companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventory: catálogo, bodegas y stock
	requireInventory := RequireModule(entity.ModuleInventory, deps.CompanyUC)

	items := protected.Group("/items", requireInventory)
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	warehouses := protected.Group("/warehouses", requireInventory)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)

	invGroup := protected.Group("/inventory", requireInventory)
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.HealthUC)
	invGroup.Post("/receive", inventoryHandler.Receive)
	invGroup.Post("/issue", inventoryHandler.Issue)
	invGroup.Post("/adjust", inventoryHandler.Adjust)
	invGroup.Post("/transfer", inventoryHandler.Transfer)
	invGroup.Get("/health", inventoryHandler.Health)
	invGroup.Post("/resync", RequireRole(entity.RoleAdmin), inventoryHandler.Resync)

	// Billing: clientes y facturas de venta
	requireBilling := RequireModule(entity.ModuleBilling, deps.CompanyUC)

	customers := protected.Group("/customers", requireBilling)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	invoices := protected.Group("/invoices", requireBilling)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	ticketHandler := NewTicketHandler(deps.TicketUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/ticket", ticketHandler.GetByInvoice)

	// Purchasing: proveedores, órdenes y facturas de compra
	requirePurchasing := RequireModule(entity.ModulePurchasing, deps.CompanyUC)

	vendors := protected.Group("/vendors", requirePurchasing)
	vendorHandler := NewVendorHandler(deps.VendorUC)
	vendors.Post("/", vendorHandler.Create)
	vendors.Get("/", vendorHandler.List)
	vendors.Get("/:id", vendorHandler.GetByID)
	vendors.Put("/:id", vendorHandler.Update)
	vendors.Delete("/:id", vendorHandler.Delete)

	bills := protected.Group("/bills", requirePurchasing)
	billHandler := NewBillHandler(deps.BillUC)
	bills.Post("/", billHandler.Create)
	bills.Get("/", billHandler.List)
	bills.Get("/:id", billHandler.GetByID)
	bills.Put("/:id", billHandler.Update)
	bills.Delete("/:id", billHandler.Delete)
	bills.Post("/:id/approve", RequireRole(entity.RoleAdmin), billHandler.Approve)

	pos := protected.Group("/purchase-orders", requirePurchasing)
	poHandler := NewPurchaseOrderHandler(deps.POUC)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Patch("/:id/status", poHandler.UpdateStatus)

	// Manufacturing: órdenes de producción
	production := protected.Group("/production-runs", RequireModule(entity.ModuleManufacturing, deps.CompanyUC))
	productionHandler := NewProductionHandler(deps.ProductionUC)
	production.Post("/", productionHandler.Create)
	production.Get("/", productionHandler.List)
	production.Get("/:id", productionHandler.GetByID)

	// Accounting: diario y plan de cuentas
	requireAccounting := RequireModule(entity.ModuleAccounting, deps.CompanyUC)
	accountingHandler := NewAccountingHandler(deps.Poster, deps.AccountUC)

	journal := protected.Group("/journal", requireAccounting)
	journal.Post("/", accountingHandler.PostEntry)
	journal.Get("/", accountingHandler.ListEntries)
	journal.Get("/trial-balance", accountingHandler.TrialBalance)
	journal.Get("/:id", accountingHandler.GetEntry)

	accounts := protected.Group("/accounts", requireAccounting)
	accounts.Post("/", accountingHandler.CreateAccount)
	accounts.Get("/", accountingHandler.ListAccounts)
	accounts.Get("/:code/balance", accountingHandler.AccountBalance)
	accounts.Get("/:code", accountingHandler.GetAccount)

	// Service: tickets de instalación
	tickets := protected.Group("/tickets", RequireModule(entity.ModuleService, deps.CompanyUC))
	tickets.Get("/", ticketHandler.List)
	tickets.Get("/:id", ticketHandler.GetByID)

	// Admin: reset transaccional
	adminGroup := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.ResetUC)
	adminGroup.Post("/reset", adminHandler.Reset)
}
