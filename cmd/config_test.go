package main

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/repository"
	"github.com/fjod/go_cart/order-entry/internal/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_PORT", "CATALOG_SOURCE", "SESSION_STORE", "SESSION_TTL", "CASH_SHORTFALL_POLICY", "CURRENCY"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, CatalogStatic, cfg.CatalogSource)
	assert.Equal(t, SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, settlement.PolicyBlock, cfg.ShortfallPolicy)
	assert.Equal(t, "VND", cfg.Currency)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CATALOG_SOURCE", "sql")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CASH_SHORTFALL_POLICY", "warn")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, CatalogSQL, cfg.CatalogSource)
	assert.Equal(t, SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, settlement.PolicyWarn, cfg.ShortfallPolicy)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad ttl", "SESSION_TTL", "soon"},
		{"bad policy", "CASH_SHORTFALL_POLICY", "maybe"},
		{"bad catalog", "CATALOG_SOURCE", "ftp"},
		{"bad store", "SESSION_STORE", "disk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestBuildCatalog_SQLite(t *testing.T) {
	cfg := &Config{
		CatalogSource:   CatalogSQL,
		CatalogDBDriver: "sqlite",
		CatalogDSN:      ":memory:",
		MigrationsPath:  "../internal/repository/migrations",
	}

	cat, closeCatalog, err := buildCatalog(cfg, nil)
	require.NoError(t, err)
	defer closeCatalog()

	products, err := cat.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestOpenSQLCatalog_Errors(t *testing.T) {
	_, err := openSQLCatalog(&Config{CatalogDBDriver: "oracle", CatalogDSN: "x"})
	assert.ErrorIs(t, err, repository.ErrUnsupportedDriver)

	_, err = openSQLCatalog(&Config{
		CatalogDBDriver: "sqlite",
		CatalogDSN:      ":memory:",
		MigrationsPath:  "does/not/exist",
	})
	assert.Error(t, err)
}
