package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/contaflow/erp-api/internal/application/accounting"
	"github.com/contaflow/erp-api/internal/application/admin"
	"github.com/contaflow/erp-api/internal/application/auth"
	"github.com/contaflow/erp-api/internal/application/billing"
	"github.com/contaflow/erp-api/internal/application/inventory"
	"github.com/contaflow/erp-api/internal/application/manufacturing"
	"github.com/contaflow/erp-api/internal/application/purchasing"
	"github.com/contaflow/erp-api/internal/application/usecase"
	"github.com/contaflow/erp-api/internal/infrastructure/postgres"
	httpRouter "github.com/contaflow/erp-api/internal/interfaces/http"
	"github.com/contaflow/erp-api/pkg/config"
	"github.com/contaflow/erp-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		App:   cfg.App.Name,
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Repositorios sobre el pool (lecturas y escrituras simples fuera de tx)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	runRepo := postgres.NewProductionRunRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	layerRepo := postgres.NewLayerRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	accountUC := usecase.NewAccountUseCase(accountRepo)
	itemUC := usecase.NewItemUseCase(itemRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	vendorUC := usecase.NewVendorUseCase(vendorRepo)
	ticketUC := usecase.NewTicketUseCase(ticketRepo)

	stockUC := inventory.NewStockLedgerUseCase(txRunner, itemRepo, warehouseRepo)
	healthUC := inventory.NewHealthUseCase(txRunner, layerRepo, stockUC)
	poster := accounting.NewPoster(txRunner, journalRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, itemRepo, customerRepo, warehouseRepo, ticketRepo, stockUC, poster)
	billUC := purchasing.NewBillUseCase(txRunner, billRepo, itemRepo, vendorRepo, warehouseRepo, stockUC, poster)
	poUC := purchasing.NewPurchaseOrderUseCase(txRunner, poRepo, itemRepo, vendorRepo, warehouseRepo)
	productionUC := manufacturing.NewProductionRunUseCase(txRunner, runRepo, itemRepo, warehouseRepo, stockUC, poster)
	resetUC := admin.NewResetUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ContaFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		AccountUC:    accountUC,
		ItemUC:       itemUC,
		WarehouseUC:  warehouseUC,
		CustomerUC:   customerUC,
		VendorUC:     vendorUC,
		TicketUC:     ticketUC,
		StockUC:      stockUC,
		HealthUC:     healthUC,
		InvoiceUC:    invoiceUC,
		BillUC:       billUC,
		POUC:         poUC,
		ProductionUC: productionUC,
		Poster:       poster,
		ResetUC:      resetUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
