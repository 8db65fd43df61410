package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/redline/pkg/reasoning"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRedlineEnv             = "REDLINE_ENV"
	EnvRedlineShutdownTimeout = "REDLINE_SHUTDOWN_TIMEOUT"
	EnvRedlineVersion         = "REDLINE_VERSION"
)

var reasoningEnv = &reasoning.Env{
	Provider:     "REDLINE_REASONING_PROVIDER",
	BaseURL:      "REDLINE_REASONING_BASE_URL",
	Token:        "REDLINE_REASONING_TOKEN",
	AuthType:     "REDLINE_REASONING_AUTH_TYPE",
	Deployment:   "REDLINE_REASONING_DEPLOYMENT",
	APIVersion:   "REDLINE_REASONING_API_VERSION",
	DefaultModel: "REDLINE_REASONING_MODEL",
	Temperature:  "REDLINE_REASONING_TEMPERATURE",
	MaxTokens:    "REDLINE_REASONING_MAX_TOKENS",
	Timeout:      "REDLINE_REASONING_TIMEOUT",
}

// Config is the root configuration for the Redline service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Reasoning       reasoning.Config `toml:"reasoning"`
	Analysis        AnalysisConfig   `toml:"analysis"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the REDLINE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRedlineEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path. The overlay is
// looked up in the working directory.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Reasoning.Merge(&overlay.Reasoning)
	c.Analysis.Merge(&overlay.Analysis)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Reasoning.Finalize(reasoningEnv); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRedlineShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRedlineVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRedlineEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
