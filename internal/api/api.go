// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/pkg/middleware"
	"github.com/JaimeStill/redline/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The rule table is loaded and validated before any route is registered.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	rules, err := cfg.Analysis.Rules()
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	runtime := NewRuntime(cfg, infra, rules)
	domain := NewDomain(runtime, cfg.Analysis.RecordKey())

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime.Logger); err != nil {
		return nil, err
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}

	m.Use(
		middleware.Recover(runtime.Logger),
		middleware.WithRequestID(),
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
	)

	return m, nil
}
