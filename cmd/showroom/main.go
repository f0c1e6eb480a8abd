package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/showroom/internal/config"
	"github.com/kailas-cloud/showroom/internal/db"
	"github.com/kailas-cloud/showroom/internal/db/memory"
	dbPostgres "github.com/kailas-cloud/showroom/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/showroom/internal/db/redis"
	logpkg "github.com/kailas-cloud/showroom/internal/logger"
	"github.com/kailas-cloud/showroom/internal/metrics"
	productrepo "github.com/kailas-cloud/showroom/internal/repository/product"
	searchrepo "github.com/kailas-cloud/showroom/internal/repository/search"
	"github.com/kailas-cloud/showroom/internal/seed"
	chiTransport "github.com/kailas-cloud/showroom/internal/transport/chi"
	batchuc "github.com/kailas-cloud/showroom/internal/usecase/batch"
	categoryuc "github.com/kailas-cloud/showroom/internal/usecase/category"
	healthuc "github.com/kailas-cloud/showroom/internal/usecase/health"
	productuc "github.com/kailas-cloud/showroom/internal/usecase/product"
	searchuc "github.com/kailas-cloud/showroom/internal/usecase/search"
	"github.com/kailas-cloud/showroom/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting showroom API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	store, err := openStore(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create catalog store", zap.Error(err))
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Catalog store not ready", zap.Error(err))
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare catalog schema", zap.Error(err))
	}
	logger.Info("Connected to catalog store")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	productRepo := productrepo.New(store)
	searchRepo := searchrepo.New(store)

	// Use cases
	suggestions := searchuc.NewSuggestionEngine(searchRepo, cfg.Search.SuggestionLimit, cfg.Search.AutocompleteLimit)
	searchSvc := searchuc.New(searchRepo, searchuc.NewFacetCalculator(searchRepo), suggestions, cfg.Search.Popular)
	productSvc := productuc.New(productRepo, searchRepo).WithMaxLimit(cfg.Search.MaxPageSize)
	categorySvc := categoryuc.New(searchRepo).WithMaxPageSize(cfg.Search.MaxPageSize)
	batchSvc := batchuc.New(productRepo, productRepo).WithMaxBatchSize(cfg.Catalog.MaxBatchSize)
	healthSvc := healthuc.New(store, searchRepo)

	if cfg.Catalog.SeedFile != "" {
		if err := seedCatalog(ctx, cfg.Catalog.SeedFile, batchSvc); err != nil {
			logger.Fatal("Failed to seed catalog", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(searchSvc, productSvc, categorySvc, batchSvc, healthSvc, logger).
		WithPagination(cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the catalog store for the configured driver.
func openStore(ctx context.Context, cfg *config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Username:  cfg.Username,
			Password:  cfg.Password,
			DB:        cfg.DB,
			IndexName: cfg.IndexName,
			KeyPrefix: cfg.KeyPrefix,
		})
	case config.DriverPostgres:
		return dbPostgres.NewStore(ctx, dbPostgres.Config{
			URL:      cfg.URL,
			Table:    cfg.IndexName,
			MaxConns: cfg.MaxConns,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// seedCatalog loads the seed file and upserts it in batches.
func seedCatalog(ctx context.Context, path string, batch *batchuc.Service) error {
	products, err := seed.Load(path)
	if err != nil {
		return err //nolint:wrapcheck // seed errors name the file
	}
	ctx = logpkg.With(ctx, zap.String("seed_file", path))
	stored, err := batch.Seed(ctx, products)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logpkg.FromContext(ctx).Info("Catalog seeded",
		zap.Int("products", stored),
		zap.Int("skipped", len(products)-stored),
	)
	return nil
}
