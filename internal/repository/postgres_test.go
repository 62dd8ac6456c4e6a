package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/catalog"
	"github.com/fjod/go_cart/order-entry/internal/domain"
	db "github.com/fjod/go_cart/order-entry/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) (*db.Repository, func()) {
	if testing.Short() {
		t.Skip("postgres catalog test needs docker")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%d user=testuser password=testpass dbname=catalog sslmode=disable", host, port.Int())
	repo, err := db.NewRepository(db.DriverPostgres, dsn)
	require.NoError(t, err)

	require.NoError(t, repo.RunMigrations("./migrations"))

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestPostgres_Catalog(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()
	ctx := context.Background()

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].Price.Equal(domain.NewMoney(180000)))

	promo, err := repo.GetPromotion(ctx, "DISCOUNT10")
	require.NoError(t, err)
	assert.True(t, promo.Value.Equal(domain.NewMoney(10)))

	_, err = repo.GetProduct(ctx, 3)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
