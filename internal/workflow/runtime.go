package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/redline/internal/prompts"
)

// Invoker sends one prompt to the reasoning service and returns its raw
// text output. *reasoning.Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, prompt, modelKey string) (string, error)
}

// Runtime bundles the dependencies that workflow execution requires.
// It is constructed by higher-level composition code from Infrastructure and config.
type Runtime struct {
	Invoker    Invoker
	Builder    prompts.Builder
	Rules      []prompts.RuleSpec
	Logger     *slog.Logger
	ChunkSize  int
	Language   string
	Model      string
	RecordKeys []string
	Now        func() time.Time
}

func (rt *Runtime) now() time.Time {
	if rt.Now != nil {
		return rt.Now()
	}
	return time.Now()
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.Default()
}

func (rt *Runtime) rules() []prompts.RuleSpec {
	if len(rt.Rules) == 0 {
		return prompts.DefaultRules()
	}
	return rt.Rules
}
