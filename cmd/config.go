package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/settlement"
)

const (
	CatalogStatic = "static"
	CatalogSQL    = "sql"
	CatalogRemote = "remote"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	HTTPPort string
	GRPCPort string

	CatalogSource   string
	CatalogDBDriver string
	CatalogDSN      string
	MigrationsPath  string
	CatalogURL      string

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	ShortfallPolicy settlement.Policy
	Currency        string
	Locale          string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		GRPCPort:        getEnv("GRPC_PORT", "50060"),
		CatalogSource:   getEnv("CATALOG_SOURCE", CatalogStatic),
		CatalogDBDriver: getEnv("CATALOG_DB_DRIVER", "sqlite"),
		CatalogDSN:      getEnv("CATALOG_DSN", "catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/repository/migrations"),
		CatalogURL:      getEnv("CATALOG_URL", "http://localhost:8081/api/v1"),
		SessionStore:    getEnv("SESSION_STORE", SessionStoreMemory),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		Currency:        getEnv("CURRENCY", "VND"),
		Locale:          getEnv("LOCALE", "vi"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShortfallPolicy, err = settlement.ParsePolicy(os.Getenv("CASH_SHORTFALL_POLICY")); err != nil {
		return nil, err
	}

	switch cfg.CatalogSource {
	case CatalogStatic, CatalogSQL, CatalogRemote:
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE: unknown source %q", cfg.CatalogSource)
	}
	switch cfg.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("SESSION_STORE: unknown store %q", cfg.SessionStore)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
