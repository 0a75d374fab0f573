package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/datanaut/naqo/internal/application/engine"
	"github.com/datanaut/naqo/internal/application/handlers"
	"github.com/datanaut/naqo/internal/application/orchestrator"
	"github.com/datanaut/naqo/internal/application/vector"
	"github.com/datanaut/naqo/internal/config"
	"github.com/datanaut/naqo/internal/domain"
	"github.com/datanaut/naqo/internal/ports"
	"github.com/datanaut/naqo/pkg/adapters/catalog/sqlite"
	"github.com/datanaut/naqo/pkg/adapters/embeddings"
	memorybus "github.com/datanaut/naqo/pkg/adapters/events/memory"
	redisbus "github.com/datanaut/naqo/pkg/adapters/events/redis"
	"github.com/datanaut/naqo/pkg/adapters/metrics/prometheus"
	"github.com/datanaut/naqo/pkg/adapters/planner"
	filestorage "github.com/datanaut/naqo/pkg/adapters/storage/file"
	memorystorage "github.com/datanaut/naqo/pkg/adapters/storage/memory"
	redisstorage "github.com/datanaut/naqo/pkg/adapters/storage/redis"
	"github.com/datanaut/naqo/pkg/api/http"
	"github.com/datanaut/naqo/pkg/api/websocket"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting NAQ Orchestrator",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx := context.Background()

	// Catalog source and query runner
	catalog, err := sqlite.Open(cfg.Catalog.DSN, logger)
	if err != nil {
		logger.Fatal("failed to open catalog", zap.Error(err))
	}
	defer catalog.Close()
	logger.Info("connected to catalog", zap.String("dsn", cfg.Catalog.DSN))

	// Optional Redis: events, cache snapshots, plan state
	var redisClient *goredis.Client
	var eventBus ports.EventBus
	var cacheStore ports.CacheStore
	var planStore ports.PlanStore

	if cfg.Redis.Enabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redisbus.NewBus(
			redisClient,
			"naqo-api",
			fmt.Sprintf("naqo-%d", os.Getpid()),
			logger,
		)
		store := redisstorage.NewStore(redisClient, 24*time.Hour, logger)
		cacheStore = store
		planStore = store
	} else {
		eventBus = memorybus.NewBus()
		cacheStore = filestorage.NewCacheStore(cfg.Vector.CacheDir, logger)
		planStore = memorystorage.NewStore()
	}

	// Embedding provider and similarity index
	provider, err := embeddings.New(&embeddings.Config{
		Provider:   cfg.Embeddings.Provider,
		BaseURL:    cfg.Embeddings.BaseURL,
		APIKey:     cfg.Embeddings.APIKey,
		Model:      cfg.Embeddings.Model,
		Dimensions: cfg.Embeddings.Dimensions,
		Timeout:    cfg.Embeddings.RequestTimeout,
		MaxRetries: cfg.Embeddings.MaxRetries,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to create embedding provider", zap.Error(err))
	}

	metricsCollector := prometheus.NewCollector()

	matcher := vector.NewMatcher(provider, cacheStore, catalog, metricsCollector, logger, vector.Options{
		CacheMaxAge:     cfg.Vector.CacheMaxAge,
		MaxTables:       cfg.Vector.MaxTables,
		ImportantTables: cfg.Vector.ImportantTables,
		Workers:         cfg.Vector.Workers,
	})

	// Populate the index at startup; a failure is not fatal, discovery
	// rebuilds on demand.
	if err := matcher.BuildOrLoad(ctx, false); err != nil {
		logger.Warn("startup index build failed", zap.Error(err))
	}

	// Task handlers
	registry := engine.NewRegistry()
	registry.Register(domain.TaskSchemaDiscovery, handlers.NewSchemaDiscovery(
		matcher, catalog, logger,
		cfg.Vector.ExpectedChunksPerTable, cfg.Vector.RebuildThreshold))
	registry.Register(domain.TaskSemanticUnderstanding, handlers.NewSemanticAnalysis(logger))
	registry.Register(domain.TaskSimilarityMatching, handlers.NewSimilarityMatching(matcher, logger))
	verification := handlers.NewUserVerification(logger)
	registry.Register(domain.TaskUserInteraction, verification)
	registry.Register(domain.TaskValidation, verification)
	registry.Register(domain.TaskQueryGeneration, handlers.NewQueryGeneration(logger))
	registry.Register(domain.TaskExecution, handlers.NewQueryExecution(catalog, logger))
	registry.Register(domain.TaskVisualization, handlers.NewVisualization(logger))

	// Planner (optional: without credentials the default plan serves)
	taskPlanner, err := planner.New(&planner.Config{
		Provider:  cfg.Planner.Provider,
		APIKey:    cfg.Planner.APIKey,
		Model:     cfg.Planner.Model,
		MaxTokens: cfg.Planner.MaxTokens,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("failed to create planner", zap.Error(err))
	}
	if taskPlanner == nil {
		logger.Warn("no planner credentials configured, running on the default plan")
	}

	// Orchestration
	eng := engine.New(registry, eventBus, metricsCollector, logger)
	orch := orchestrator.New(
		taskPlanner,
		eng,
		orchestrator.NewValidator(),
		planStore,
		eventBus,
		metricsCollector,
		logger,
		cfg.Timeouts.PlanExecution,
	)

	// API servers
	httpServer := http.NewServer(&http.Config{
		Port:         cfg.HTTPPort,
		Orchestrator: orch,
		Matcher:      matcher,
		Logger:       logger,
	})

	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("NAQ Orchestrator started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("indexed_items", matcher.IndexedCount()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("NAQ Orchestrator shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
