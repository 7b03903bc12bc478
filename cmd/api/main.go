package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/renovia/pos-ledger-api/internal/application/service"
	"github.com/renovia/pos-ledger-api/internal/config"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/cache"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/database"
	"github.com/renovia/pos-ledger-api/internal/infrastructure/repository"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/handler"
	"github.com/renovia/pos-ledger-api/internal/presentation/http/routes"
	"github.com/renovia/pos-ledger-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed demo data when requested
	if err := database.SeedDemoData(db); err != nil {
		log.Printf("Warning: Failed to seed demo data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Dashboard cache: Redis when configured, otherwise a noop
	var dashCache cache.DashboardCache = cache.NewNoopCache()
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, dashboard cache disabled: %v", err)
		} else {
			dashCache = redisCache
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	sellerRepo := repository.NewSellerRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	reportingRepo := repository.NewReportingRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo)
	saleService := service.NewSaleService(saleRepo, productRepo, sellerRepo,
		dashCache, cfg.Ledger.DefaultTaxRate, cfg.Ledger.Currency)
	returnService := service.NewReturnService(returnRepo, saleRepo, productRepo,
		dashCache, cfg.Ledger.FreestandingReturns, cfg.Ledger.DefaultTaxRate)
	invoiceService := service.NewInvoiceService(invoiceRepo, saleRepo, sellerRepo, sequenceRepo,
		cfg.Ledger.DefaultTaxRate, cfg.Ledger.Currency, cfg.Ledger.InvoiceDueDays)
	dashboardService := service.NewDashboardService(reportingRepo, returnRepo, productRepo,
		dashCache, cfg.Ledger.DashboardCacheTTL)
	reportService := service.NewReportService(reportingRepo)
	exportService := service.NewExportService(saleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:   handler.NewProductHandler(productService),
		Sale:      handler.NewSaleHandler(saleService),
		Return:    handler.NewReturnHandler(returnService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Report:    handler.NewReportHandler(reportService, exportService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
