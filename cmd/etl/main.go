package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/forecast-etl/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/forecast-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/forecast-etl/internal/adapter/kafka"
	redisadapter "github.com/couchcryptid/forecast-etl/internal/adapter/redis"
	"github.com/couchcryptid/forecast-etl/internal/config"
	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/observability"
	"github.com/couchcryptid/forecast-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

// readiness is ready when every check passes.
type readiness []sharedobs.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	opts := domain.BuildOptions{IconBasePath: cfg.IconPath, Location: cfg.Location}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(opts, cfg.BuildCacheSize, metrics, logger)

	// Forecast store: Redis behind a read-through LRU when configured, else in-memory.
	var (
		store   domain.ForecastStore
		loader  pipeline.FanOutLoader
		redis   *redisadapter.Store
		checks  readiness
		storeBy string
	)
	if cfg.RedisAddr != "" {
		redis = redisadapter.NewStore(cfg.RedisAddr, cfg.RedisTTL, logger)
		cached := cache.NewCachedStore(redis, cfg.StoreCacheSize, cfg.RedisTTL, metrics.StoreCache)
		store = cached
		loader = pipeline.FanOutLoader{writer, cached}
		checks = append(checks, redis)
		storeBy = "redis"
	} else {
		mem := cache.NewMemoryStore(cfg.StoreCacheSize)
		store = mem
		loader = pipeline.FanOutLoader{writer, pipeline.StoreLoader{Store: mem}}
		storeBy = "memory"
	}
	logger.Info("forecast store configured", "store", storeBy, "cache_size", cfg.StoreCacheSize)

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)
	checks = append(checks, p)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:     checks,
		Store:     store,
		Builder:   transformer,
		Options:   opts,
		Metrics:   metrics,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if redis != nil {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
