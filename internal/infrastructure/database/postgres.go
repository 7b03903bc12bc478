package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/renovia/pos-ledger-api/internal/config"
	"github.com/renovia/pos-ledger-api/internal/domain/entity"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Seller{},
		&entity.Product{},

		// Ledger entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.ProductReturn{},
		&entity.ReturnItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.DocumentSequence{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData creates a demo seller with a small catalog when
// SEED_DEMO_SELLER is configured. Useful for local development only.
func SeedDemoData(db *gorm.DB) error {
	sellerIDStr := viper.GetString("SEED_DEMO_SELLER")
	if sellerIDStr == "" {
		return nil
	}

	sellerID, err := uuid.Parse(sellerIDStr)
	if err != nil {
		return fmt.Errorf("invalid SEED_DEMO_SELLER: %w", err)
	}

	var existing entity.Seller
	if err := db.First(&existing, "id = ?", sellerID).Error; err == nil {
		log.Printf("Demo seller already exists: %s", sellerID)
		return nil
	}

	seller := entity.Seller{
		ID:          sellerID,
		CompanyName: "Demo Renovation Supplies",
		Currency:    "EUR",
		Active:      true,
	}
	if err := db.Create(&seller).Error; err != nil {
		return fmt.Errorf("failed to seed demo seller: %w", err)
	}

	products := []entity.Product{
		{SellerID: sellerID, Name: "Wall paint 10L", SKU: "PAINT-10L", Price: 4990, Quantity: 25, QuantityAlert: 5, TrackInventory: true},
		{SellerID: sellerID, Name: "Oak parquet m2", SKU: "PARQ-OAK", Price: 3450, Quantity: 120, QuantityAlert: 20, TrackInventory: true},
		{SellerID: sellerID, Name: "Delivery fee", SKU: "SVC-DELIV", Price: 1500, TrackInventory: false},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Warning: failed to seed product %s: %v", products[i].SKU, err)
		}
	}

	log.Printf("Demo seller seeded: %s", sellerID)
	return nil
}
