package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Fulfillment modes.
const (
	FulfillmentManual   = "manual"
	FulfillmentCron     = "cron"
	FulfillmentTemporal = "temporal"
)

type Config struct {
	HTTPPort    string
	StoreDriver string
	LogLevel    string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StaffJWTSecret       string
	AutoPrepareOnPayment bool

	FulfillmentMode     string
	FulfillmentSchedule string

	TemporalHost       string
	TemporalNamespace  string
	TemporalTaskQueue  string
	TemporalStageDelay time.Duration
}

// LoadConfig reads the configuration through getenv, applying defaults for
// unset keys.
func LoadConfig(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPPort:    get("HTTP_PORT", "8080"),
		StoreDriver: strings.ToLower(get("STORE_DRIVER", StoreDriverMemory)),
		LogLevel:    get("LOG_LEVEL", "info"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD"),
		DBName:     get("DB_NAME", "storefront"),
		DBSslMode:  get("DB_SSLMODE", "disable"),

		StaffJWTSecret: getenv("STAFF_JWT_SECRET"),

		FulfillmentMode:     strings.ToLower(get("FULFILLMENT_MODE", FulfillmentManual)),
		FulfillmentSchedule: get("FULFILLMENT_SCHEDULE", ""),

		TemporalHost:      get("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: get("TEMPORAL_NAMESPACE", "default"),
		TemporalTaskQueue: get("TEMPORAL_TASK_QUEUE", "storefront-fulfillment"),
	}

	var errList []error

	autoPrepare, err := strconv.ParseBool(get("AUTO_PREPARE_ON_PAYMENT", "false"))
	if err != nil {
		errList = append(errList, fmt.Errorf("AUTO_PREPARE_ON_PAYMENT: %w", err))
	}
	cfg.AutoPrepareOnPayment = autoPrepare

	stageDelay, err := time.ParseDuration(get("TEMPORAL_STAGE_DELAY", "30s"))
	if err != nil {
		errList = append(errList, fmt.Errorf("TEMPORAL_STAGE_DELAY: %w", err))
	}
	cfg.TemporalStageDelay = stageDelay

	switch cfg.StoreDriver {
	case StoreDriverMemory, StoreDriverPostgres:
	default:
		errList = append(errList, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver))
	}

	switch cfg.FulfillmentMode {
	case FulfillmentManual, FulfillmentCron, FulfillmentTemporal:
	default:
		errList = append(errList, fmt.Errorf("FULFILLMENT_MODE: unknown mode %q", cfg.FulfillmentMode))
	}

	if err := errors.Join(errList...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
