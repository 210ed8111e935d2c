package postgres

import (
	"fmt"
	"log/slog"

	"storefront/internal/adapters/out/postgres/orderrepo"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectionConfig holds the PostgreSQL connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the keyword/value connection string understood by pgx.
func (c ConnectionConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// Open connects to PostgreSQL and migrates the order tables.
func Open(cfg ConnectionConfig, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	log.Info("postgres connected", "host", cfg.Host, "database", cfg.DBName)
	return db, nil
}

// Migrate creates or updates the orders and order_items tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}); err != nil {
		return fmt.Errorf("migrate order tables: %w", err)
	}
	return nil
}
