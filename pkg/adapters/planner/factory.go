package planner

import (
	"fmt"

	"github.com/datanaut/naqo/internal/ports"
	"github.com/datanaut/naqo/pkg/adapters/planner/anthropic"
	"go.uber.org/zap"
)

// Config holds planner configuration.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

// New creates a planner based on provider. An empty API key yields no planner
// and no error; the orchestrator runs on the default plan alone.
func New(cfg *Config) (ports.Planner, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewPlanner(cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported planner provider: %s", cfg.Provider)
	}
}
