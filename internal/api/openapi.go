package api

import (
	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

// NewSpec generates the OpenAPI document for the given route groups served
// under the configured base path.
func NewSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	for _, g := range groups {
		g.AddToSpec(spec)
	}
	return spec
}
