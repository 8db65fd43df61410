package openapi

import "os"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Redline API"
	}
	if c.Description == "" {
		c.Description = "Rule-based review of extracted document text."
	}
	if env == nil {
		return nil
	}
	if v := getenv(env.Title); v != "" {
		c.Title = v
	}
	if v := getenv(env.Description); v != "" {
		c.Description = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
