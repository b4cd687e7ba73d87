package db

import (
	"fmt"
	"log"
	"time"

	"github.com/diewo77/go-quotations/internal/config"
	"github.com/diewo77/go-quotations/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the archive database described by cfg. Postgres
// connections are retried while the server starts up.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		log.Printf("Opening sqlite archive: %s", cfg.Path)
		return gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{})
	case "postgres":
		log.Printf("Connecting to database: host=%s port=%d dbname=%s user=%s",
			cfg.Host, cfg.Port, cfg.DBName, cfg.User)
		var db *gorm.DB
		var err error
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
			if err == nil {
				return db, nil
			}
			log.Printf("Connection attempt %d/5 failed, retrying...", i+1)
			time.Sleep(2 * time.Second)
		}
		return nil, fmt.Errorf("database connection failed: %w", err)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.QuotationRecord{},
	)
}
