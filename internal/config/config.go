package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Normalization inputs passed to the day builder.
	IconPath string
	Location *time.Location

	// Forecast store. An empty RedisAddr selects the in-memory store.
	RedisAddr      string
	RedisTTL       time.Duration
	BuildCacheSize int
	StoreCacheSize int

	// Query API throttling.
	APIRateLimit float64
	APIRateBurst int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	loc, err := parseLocation(sharedcfg.EnvOrDefault("FORECAST_TZ", "Local"))
	if err != nil {
		return nil, err
	}

	redisTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("REDIS_TTL", "6h"))
	if err != nil || redisTTL <= 0 {
		return nil, errors.New("invalid REDIS_TTL")
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("API_RATE_LIMIT", "20"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid API_RATE_LIMIT")
	}

	rateBurst, err := strconv.Atoi(sharedcfg.EnvOrDefault("API_RATE_BURST", "40"))
	if err != nil || rateBurst <= 0 {
		return nil, errors.New("invalid API_RATE_BURST")
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-forecast-payloads"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "normalized-forecasts"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "forecast-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		IconPath: sharedcfg.EnvOrDefault("ICON_PATH", "icons"),
		Location: loc,

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisTTL:       redisTTL,
		BuildCacheSize: parsePositiveInt("BUILD_CACHE_SIZE", 64),
		StoreCacheSize: parsePositiveInt("STORE_CACHE_SIZE", 256),

		APIRateLimit: rateLimit,
		APIRateBurst: rateBurst,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.IconPath == "" {
		return nil, errors.New("ICON_PATH is required")
	}

	return cfg, nil
}

// parseLocation resolves the zone hours of day are expressed in.
func parseLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TZ %q: %w", name, err)
	}
	return loc, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
