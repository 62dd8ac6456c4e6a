package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/catalog"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	db "github.com/fjod/go_cart/order-entry/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *db.Repository {
	// Use in-memory database for tests
	repo, err := db.NewRepository(db.DriverSQLite, ":memory:")
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("./migrations"))

	return repo
}

func TestNewRepository_UnsupportedDriver(t *testing.T) {
	_, err := db.NewRepository("mysql", "whatever")
	assert.ErrorIs(t, err, db.ErrUnsupportedDriver)
}

func TestRunMigrations_Twice(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	assert.NoError(t, repo.RunMigrations("./migrations"))
}

func TestListProducts_SeedData(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	products, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Product A", products[0].Name)
	assert.True(t, products[0].Price.Equal(domain.NewMoney(180000)))
	assert.True(t, products[1].Price.Equal(domain.NewMoney(200000)))
}

func TestGetProduct(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	p, err := repo.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Product B", p.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	p, err := repo.GetProduct(context.Background(), 999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Nil(t, p)
}

func TestPromotions(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	promos, err := repo.ListPromotions(ctx)
	require.NoError(t, err)
	require.Len(t, promos, 2)
	assert.Equal(t, "DISCOUNT10", promos[0].Code)
	assert.Equal(t, domain.PromotionTypePercent, promos[0].Type)

	flat, err := repo.GetPromotion(ctx, "FLAT50")
	require.NoError(t, err)
	assert.Equal(t, domain.PromotionTypeFlat, flat.Type)
	assert.True(t, flat.Value.Equal(domain.NewMoney(50)))

	_, err = repo.GetPromotion(ctx, "flat50")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestListProducts_CancelledContext(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListProducts(ctx)
	assert.ErrorContains(t, err, "failed to query products")
}

func TestGetPromotion_WithTimeout(t *testing.T) {
	repo := setupTestDB(t)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	p, err := repo.GetPromotion(ctx, "DISCOUNT10")
	require.NoError(t, err)
	assert.True(t, p.Value.Equal(domain.NewMoney(10)))
}
