package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/redline/pkg/formatting"
	"github.com/JaimeStill/redline/pkg/middleware"
	"github.com/JaimeStill/redline/pkg/openapi"
)

const (
	EnvAPIBasePath    = "REDLINE_API_BASE_PATH"
	EnvAPIMaxBodySize = "REDLINE_API_MAX_BODY_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "REDLINE_CORS_ENABLED",
	Origins:          "REDLINE_CORS_ORIGINS",
	AllowedMethods:   "REDLINE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "REDLINE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "REDLINE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "REDLINE_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "REDLINE_OPENAPI_TITLE",
	Description: "REDLINE_OPENAPI_DESCRIPTION",
}

const defaultMaxBodySize = 20 * 1024 * 1024

// APIConfig holds API routing, request size, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return defaultMaxBodySize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "20MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("invalid base_path: %q must be a single-level path", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxBodySize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_body_size: %q", c.MaxBodySize)
	}
	return nil
}
