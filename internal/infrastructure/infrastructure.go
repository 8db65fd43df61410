// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies (logging, result cache, reasoning client) that
// domain systems require.
package infrastructure

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/prompts"
	"github.com/JaimeStill/redline/internal/workflow"
	"github.com/JaimeStill/redline/pkg/cache"
	"github.com/JaimeStill/redline/pkg/lifecycle"
	"github.com/JaimeStill/redline/pkg/reasoning"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Cache     *cache.Cache[string, workflow.AnalysisResult]
	Reasoning *reasoning.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) *Infrastructure {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) *Infrastructure {
	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Cache:     cache.New[string, workflow.AnalysisResult](cache.DefaultTTL),
		Reasoning: reasoning.New(cfg.Reasoning, logger),
	}
}

// Workflow builds a workflow runtime that invokes the reasoning client with
// the given analysis settings and rule table.
func (i *Infrastructure) Workflow(cfg *config.AnalysisConfig, rules []prompts.RuleSpec) *workflow.Runtime {
	return &workflow.Runtime{
		Invoker:    i.Reasoning,
		Builder:    prompts.NewBuilder(cfg.EmbedLimit, cfg.RecordKey()),
		Rules:      rules,
		Logger:     i.Logger,
		ChunkSize:  cfg.ChunkSize,
		Language:   cfg.Language,
		Model:      cfg.Model,
		RecordKeys: cfg.RecordKeys,
	}
}

// Start registers infrastructure hooks with the lifecycle coordinator. The
// cache is swept periodically until shutdown.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup("reasoning", func(ctx context.Context) error {
		cfg := i.Reasoning.Config()
		if cfg.Token == "" {
			i.Logger.Warn("reasoning token not configured; analyses will fail until it is set",
				"base_url", cfg.BaseURL,
			)
		}
		return nil
	})

	go i.sweep(i.Lifecycle.Context(), i.Cache.TTL()/4)

	i.Lifecycle.OnShutdown(func() {
		i.Logger.Info("result cache released", "entries", i.Cache.Len())
	})

	return nil
}

func (i *Infrastructure) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := i.Cache.Sweep(); n > 0 {
				i.Logger.Debug("expired analyses evicted", "count", n)
			}
		}
	}
}
