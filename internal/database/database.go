package database

import (
	"fmt"

	"papertrade/internal/config"
	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase creates a new database connection, migrates the schema and
// seeds the wallet when configured.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the ledger tables and funds the wallet on first run.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if err := db.AutoMigrate(&models.Wallet{}, &models.Holding{}, &models.WatchlistItem{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Seed the singleton wallet from config if no wallet exists yet.
	// Subsequent runs keep whatever balance the trades left behind.
	if cfg.Ledger.SeedAmount > 0 {
		var count int64
		if err := db.Model(&models.Wallet{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count wallets: %w", err)
		}
		if count == 0 {
			wallet := models.Wallet{Amount: decimal.NewFromFloat(cfg.Ledger.SeedAmount)}
			if err := db.Create(&wallet).Error; err != nil {
				return fmt.Errorf("failed to seed wallet: %w", err)
			}
		}
	}

	return nil
}
