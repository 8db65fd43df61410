package reasoning

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/protocol"
	"github.com/JaimeStill/go-agents/pkg/providers"
)

// DefaultModelKey is the logical key unknown model keys resolve to.
const DefaultModelKey = "default"

// Config holds the reasoning service connection and generation parameters.
// It is the file-friendly form of a go-agents AgentConfig; Agent performs
// the translation per request.
type Config struct {
	Name        string            `toml:"name"`
	Provider    string            `toml:"provider"`
	BaseURL     string            `toml:"base_url"`
	Token       string            `toml:"token"`
	AuthType    string            `toml:"auth_type"`
	Deployment  string            `toml:"deployment"`
	APIVersion  string            `toml:"api_version"`
	Models      map[string]string `toml:"models"`
	Temperature float64           `toml:"temperature"`
	MaxTokens   int               `toml:"max_tokens"`
	Timeout     string            `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider     string
	BaseURL      string
	Token        string
	AuthType     string
	Deployment   string
	APIVersion   string
	DefaultModel string
	Temperature  string
	MaxTokens    string
	Timeout      string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// ResolveModel maps a logical model key to a backend model identifier,
// falling back to the default entry for unknown keys.
func (c *Config) ResolveModel(key string) string {
	if model, ok := c.Models[key]; ok && model != "" {
		return model
	}
	return c.Models[DefaultModelKey]
}

// Agent builds the go-agents configuration for one request to the model
// resolved from modelKey. Values start from gaconfig.DefaultAgentConfig and
// the configured fields are merged over them. Retries are disabled.
func (c *Config) Agent(modelKey string) gaconfig.AgentConfig {
	agent := gaconfig.DefaultAgentConfig()
	agent.Merge(&gaconfig.AgentConfig{
		Name: c.Name,
		Client: &gaconfig.ClientConfig{
			Timeout: gaconfig.Duration(c.TimeoutDuration()),
		},
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: strings.TrimRight(c.BaseURL, "/"),
			Options: c.providerOptions(),
		},
		Model: &gaconfig.ModelConfig{
			Name: c.ResolveModel(modelKey),
			Capabilities: map[string]map[string]any{
				string(protocol.Chat): {
					"temperature": c.Temperature,
					"max_tokens":  c.MaxTokens,
				},
			},
		},
	})
	agent.Client.Retry.MaxRetries = 0
	return agent
}

func (c *Config) providerOptions() map[string]any {
	options := make(map[string]any)
	set := func(key, value string) {
		if value != "" {
			options[key] = value
		}
	}

	set("token", c.Token)
	set("auth_type", c.AuthType)
	set("deployment", c.Deployment)
	set("api_version", c.APIVersion)

	return options
}

// Finalize applies defaults, environment variable overrides, and validation.
// A missing token is not a validation failure; it surfaces as
// ErrConfiguration when a request is attempted.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Model entries merge by key.
func (c *Config) Merge(overlay *Config) {
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.AuthType != "" {
		c.AuthType = overlay.AuthType
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if len(overlay.Models) > 0 && c.Models == nil {
		c.Models = make(map[string]string, len(overlay.Models))
	}
	for key, model := range overlay.Models {
		c.Models[key] = model
	}
}

func (c *Config) loadDefaults() {
	if c.Name == "" {
		c.Name = "redline"
	}
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.AuthType == "" {
		c.AuthType = "bearer"
	}
	if c.Models == nil {
		c.Models = make(map[string]string)
	}
	if c.Models[DefaultModelKey] == "" {
		c.Models[DefaultModelKey] = "gpt-4o-mini"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == "" {
		c.Timeout = "5m"
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	str(env.Provider, &c.Provider)
	str(env.BaseURL, &c.BaseURL)
	str(env.Token, &c.Token)
	str(env.AuthType, &c.AuthType)
	str(env.Deployment, &c.Deployment)
	str(env.APIVersion, &c.APIVersion)
	str(env.Timeout, &c.Timeout)

	if env.DefaultModel != "" {
		if v := os.Getenv(env.DefaultModel); v != "" {
			c.Models[DefaultModelKey] = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = f
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxTokens = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers.ListProviders(), c.Provider) {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if c.Provider == "azure" && (c.Deployment == "" || c.APIVersion == "") {
		return fmt.Errorf("azure provider requires deployment and api_version")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("invalid temperature: %v", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("invalid max_tokens: %d", c.MaxTokens)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
