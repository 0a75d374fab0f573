package embeddings

import (
	"fmt"
	"time"

	"github.com/datanaut/naqo/internal/ports"
	"github.com/datanaut/naqo/pkg/adapters/embeddings/deterministic"
	"github.com/datanaut/naqo/pkg/adapters/embeddings/openai"
	"go.uber.org/zap"
)

// Config holds embedding provider configuration.
type Config struct {
	Provider   string
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	Timeout    time.Duration
	MaxRetries int
	Logger     *zap.Logger
}

// New creates an embedding provider based on provider configuration. The
// openai provider without an API key degrades to the deterministic one so
// the service still starts in credential-less environments.
func New(cfg *Config) (ports.EmbeddingProvider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			cfg.Logger.Warn("no embeddings API key configured, using deterministic provider")
			return deterministic.NewProvider(cfg.Dimensions), nil
		}
		return openai.NewProvider(openai.Config{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			Logger:     cfg.Logger,
		}), nil
	case "deterministic":
		return deterministic.NewProvider(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Provider)
	}
}
