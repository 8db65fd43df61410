package api

import (
	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/internal/prompts"
	"github.com/JaimeStill/redline/internal/workflow"
)

// Runtime extends Infrastructure with the API-scoped workflow runtime.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger and a
// workflow runtime built from the analysis config.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, rules []prompts.RuleSpec) *Runtime {
	scoped := &infrastructure.Infrastructure{
		Lifecycle: infra.Lifecycle,
		Logger:    infra.Logger.With("module", "api"),
		Cache:     infra.Cache,
		Reasoning: infra.Reasoning,
	}

	return &Runtime{
		Infrastructure: scoped,
		Workflow:       scoped.Workflow(&cfg.Analysis, rules),
	}
}
