package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the NAQ Orchestrator
type Config struct {
	// Server configuration
	HTTPPort int    `env:"NAQO_HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Catalog source
	Catalog CatalogConfig

	// Redis configuration (optional: events, cache snapshots, plan state)
	Redis RedisConfig

	// Embedding provider configuration
	Embeddings EmbeddingsConfig

	// Planner configuration
	Planner PlannerConfig

	// Vector index configuration
	Vector VectorConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// CatalogConfig holds the relational source connection configuration
type CatalogConfig struct {
	Driver string `env:"CATALOG_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"CATALOG_DSN" envDefault:"naqo.db"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// EmbeddingsConfig holds embedding provider configuration
type EmbeddingsConfig struct {
	Provider string `env:"EMBEDDINGS_PROVIDER" envDefault:"openai"`
	BaseURL  string `env:"EMBEDDINGS_BASE_URL" envDefault:"https://api.openai.com/v1"`
	APIKey   string `env:"EMBEDDINGS_API_KEY"`

	Model          string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	Dimensions     int           `env:"EMBEDDINGS_DIMENSIONS" envDefault:"1536"`
	RequestTimeout time.Duration `env:"EMBEDDINGS_REQUEST_TIMEOUT" envDefault:"180s"`
	MaxRetries     int           `env:"EMBEDDINGS_MAX_RETRIES" envDefault:"3"`
}

// PlannerConfig holds reasoning-model planner configuration
type PlannerConfig struct {
	Provider string `env:"PLANNER_PROVIDER" envDefault:"anthropic"`
	APIKey   string `env:"PLANNER_API_KEY"`

	Model          string        `env:"PLANNER_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	MaxTokens      int           `env:"PLANNER_MAX_TOKENS" envDefault:"2000"`
	RequestTimeout time.Duration `env:"PLANNER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// VectorConfig holds embedding cache and similarity index configuration
type VectorConfig struct {
	CacheDir        string        `env:"VECTOR_CACHE_DIR" envDefault:"storage"`
	CacheMaxAge     time.Duration `env:"VECTOR_CACHE_MAX_AGE" envDefault:"24h"`
	MaxTables       int           `env:"VECTOR_MAX_TABLES" envDefault:"0"`
	ImportantTables []string      `env:"VECTOR_IMPORTANT_TABLES" envSeparator:","`
	Workers         int           `env:"VECTOR_WORKERS" envDefault:"3"`

	// Completeness check: expected vectors = tables * chunks, rebuild below threshold
	ExpectedChunksPerTable int     `env:"VECTOR_EXPECTED_CHUNKS_PER_TABLE" envDefault:"4"`
	RebuildThreshold       float64 `env:"VECTOR_REBUILD_THRESHOLD" envDefault:"0.8"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	PlanExecution   time.Duration `env:"TIMEOUT_PLAN_EXECUTION" envDefault:"600s"` // 10 minutes
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Missing provider credentials
// are not an error: the affected subsystem degrades instead of refusing to
// start.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.Catalog.DSN == "" {
		return fmt.Errorf("catalog DSN is required")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	if c.Embeddings.Dimensions < 1 {
		return fmt.Errorf("embedding dimensions must be at least 1: %d", c.Embeddings.Dimensions)
	}

	if c.Vector.Workers < 1 {
		return fmt.Errorf("vector worker count must be at least 1")
	}
	if c.Vector.ExpectedChunksPerTable < 1 {
		return fmt.Errorf("expected chunks per table must be at least 1")
	}
	if c.Vector.RebuildThreshold <= 0 || c.Vector.RebuildThreshold > 1 {
		return fmt.Errorf("rebuild threshold must be in (0, 1]: %f", c.Vector.RebuildThreshold)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
