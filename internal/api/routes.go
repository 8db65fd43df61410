package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

// Groups returns the route groups the API module serves.
func Groups(domain *Domain, cfg *config.Config) []routes.Group {
	return []routes.Group{
		domain.Analyses.Handler(cfg.API.MaxBodySizeBytes()).Routes(),
		domain.Rules.Routes(),
	}
}

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	logger *slog.Logger,
) error {
	groups := Groups(domain, cfg)

	specBytes, err := openapi.MarshalJSON(NewSpec(cfg, groups...))
	if err != nil {
		return fmt.Errorf("openapi: %w", err)
	}

	registered := routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	logger.Debug("routes registered", "base_path", cfg.API.BasePath, "routes", registered)
	return nil
}
