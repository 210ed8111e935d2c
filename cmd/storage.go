package cmd

import (
	"fmt"
	"log/slog"

	"storefront/internal/adapters/out/memory"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/core/ports"
)

// NewOrderStore opens the store selected by STORE_DRIVER. The returned close
// releases the underlying connections.
func NewOrderStore(cfg Config, logger *slog.Logger) (ports.OrderStore, func() error, error) {
	if cfg.StoreDriver != StoreDriverPostgres {
		logger.Info("using in-memory order store")
		return memory.NewOrderStore(), func() error { return nil }, nil
	}

	db, err := postgres.Open(postgres.ConnectionConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSslMode,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	return postgres.NewOrderStore(postgres.NewGormUnitOfWorkFactory(db)), sqlDB.Close, nil
}
