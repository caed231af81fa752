package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/igomarket/backend/config"
	httpDelivery "github.com/igomarket/backend/internal/delivery/http"
	"github.com/igomarket/backend/internal/domain"
	"github.com/igomarket/backend/internal/infrastructure/cache"
	"github.com/igomarket/backend/internal/infrastructure/snapshot"
	"github.com/igomarket/backend/internal/logger"
	"github.com/igomarket/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Server.Environment == "development")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting igomarket backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("snapshot_store", cfg.Snapshot.Store))

	// Initialize the snapshot store
	var store domain.SnapshotStore
	switch cfg.Snapshot.Store {
	case "sqlite":
		sqliteStore, err := snapshot.NewSQLiteStore(cfg.Snapshot.SQLitePath)
		if err != nil {
			zlog.Error("failed to open sqlite store", zap.Error(err))
			log.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		csvStore, err := snapshot.NewCSVStore(cfg.Snapshot.Dir)
		if err != nil {
			zlog.Error("failed to open csv store", zap.Error(err))
			log.Fatalf("Failed to open csv store: %v", err)
		}
		store = csvStore
	}

	snapshotCache := cache.NewSnapshotCache(cfg.Cache.TTL)

	// Initialize usecase layer
	catalog := usecase.DefaultCatalog()
	keys := usecase.NewIdentityKeyBuilder(catalog)

	extractionService := usecase.NewExtractionService(
		usecase.NewLineParser(catalog, usecase.ParserConfig{
			Workers:            cfg.Parser.Workers,
			EnableDebugLogging: cfg.Parser.EnableDebugLogging,
		}),
		usecase.NewFieldNormalizer(catalog, usecase.NormalizerConfig{
			EnableDebugLogging: cfg.Parser.EnableDebugLogging,
		}),
		usecase.NewSegmentClassifier(catalog),
		store,
		usecase.ExtractionConfig{EnableDebugLogging: cfg.Parser.EnableDebugLogging},
	)
	comparisonService := usecase.NewComparisonService(keys, usecase.ComparisonConfig{
		EnableDebugLogging: cfg.Parser.EnableDebugLogging,
	})
	cartService := usecase.NewCartService(keys, usecase.CartConfig{
		EnableDebugLogging: cfg.Parser.EnableDebugLogging,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		extractionService, comparisonService, cartService, snapshotCache, zlog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		zlog.Error("server stopped", zap.Error(err))
		log.Fatalf("Failed to start server: %v", err)
	}
}
