package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/order-entry/internal/catalog"
	"github.com/fjod/go_cart/order-entry/internal/format"
	orderhttp "github.com/fjod/go_cart/order-entry/internal/http"
	"github.com/fjod/go_cart/order-entry/internal/repository"
	"github.com/fjod/go_cart/order-entry/internal/service"
	"github.com/fjod/go_cart/order-entry/internal/store"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	cat, closeCatalog, err := buildCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("catalog setup failed", zap.String("source", cfg.CatalogSource), zap.Error(err))
	}
	defer closeCatalog()
	logger.Info("catalog ready", zap.String("source", cfg.CatalogSource))

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("session store setup failed", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	defer sessions.Close()
	logger.Info("session store ready", zap.String("store", cfg.SessionStore))

	formatter, err := format.New(cfg.Currency, cfg.Locale)
	if err != nil {
		logger.Fatal("currency formatter setup failed", zap.Error(err))
	}

	svc := service.NewOrderEntryService(sessions, cat, cfg.ShortfallPolicy, formatter, logger)
	handler := orderhttp.NewOrderHandler(svc, cfg.RequestTimeout, logger)
	router := orderhttp.NewRouter(handler, logger, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "order-entry"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// gRPC carries the health protocol for orchestrators and grpcurl.
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		logger.Fatal("grpc listen failed", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		logger.Info("grpc health listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("grpc server error", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("order-entry service starting",
			zap.String("port", cfg.HTTPPort),
			zap.String("cash_shortfall_policy", string(cfg.ShortfallPolicy)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down order-entry service")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	logger.Info("order-entry service stopped")
}

func buildCatalog(cfg *Config, logger *zap.Logger) (catalog.Catalog, func(), error) {
	switch cfg.CatalogSource {
	case CatalogSQL:
		repo, err := openSQLCatalog(cfg)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case CatalogRemote:
		client := catalog.NewRemoteClient(cfg.CatalogURL, catalog.DefaultTimeout, logger)
		return client, func() {}, nil
	default:
		return catalog.Default(), func() {}, nil
	}
}

// openSQLCatalog connects to the catalog database and brings its schema up to date.
func openSQLCatalog(cfg *Config) (repository.RepoInterface, error) {
	repo, err := repository.NewRepository(cfg.CatalogDBDriver, cfg.CatalogDSN)
	if err != nil {
		return nil, err
	}
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func buildSessionStore(ctx context.Context, cfg *Config) (store.SessionStore, error) {
	if cfg.SessionStore != SessionStoreRedis {
		return store.NewMemoryStore(cfg.SessionTTL), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return store.NewRedisStore(redisClient, cfg.SessionTTL), nil
}
