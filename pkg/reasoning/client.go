// Package reasoning invokes the reasoning service through go-agents. Each
// Invoke call builds its own agent and issues one chat request with no
// retry or backoff.
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaclient "github.com/JaimeStill/go-agents/pkg/client"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentFactory creates the agent used for one request. agent.New is the
// default.
type AgentFactory func(cfg *gaconfig.AgentConfig) (agent.Agent, error)

// Option configures a Client.
type Option func(*Client)

// WithAgentFactory replaces the factory used to create agents.
func WithAgentFactory(f AgentFactory) Option {
	return func(c *Client) {
		c.newAgent = f
	}
}

// Client sends prompts to the reasoning service.
type Client struct {
	cfg      Config
	newAgent AgentFactory
	logger   *slog.Logger
}

// New creates a Client from a finalized Config.
func New(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:      cfg,
		newAgent: agent.New,
		logger:   logger.With("system", "reasoning"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Invoke sends prompt to the model resolved from modelKey and returns the
// raw text of the first completion choice.
func (c *Client) Invoke(ctx context.Context, prompt, modelKey string) (string, error) {
	if c.cfg.Token == "" {
		return "", fmt.Errorf("%w: token required", ErrConfiguration)
	}

	cfg := c.cfg.Agent(modelKey)
	if cfg.Model.Name == "" {
		return "", fmt.Errorf("%w: no model for key %q", ErrConfiguration, modelKey)
	}

	a, err := c.newAgent(&cfg)
	if err != nil {
		return "", fmt.Errorf("%w: create agent: %w", ErrConfiguration, err)
	}

	reqID := uuid.NewString()
	start := time.Now()

	c.logger.DebugContext(
		ctx, "request",
		"req_id", reqID,
		"agent_id", a.ID(),
		"model", cfg.Model.Name,
		"prompt_chars", len(prompt),
	)

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", c.transportError(ctx, reqID, err)
	}

	if resp == nil {
		return "", nil
	}

	content := resp.Content()

	c.logger.DebugContext(
		ctx, "response",
		"req_id", reqID,
		"chars", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return content, nil
}

// transportError logs the full failure and returns an error that carries
// only the status code. Provider response bodies stay in the log.
func (c *Client) transportError(ctx context.Context, reqID string, err error) error {
	c.logger.WarnContext(
		ctx, "request failed",
		"req_id", reqID,
		"error", err,
	)

	var status *gaclient.HTTPStatusError
	switch {
	case errors.As(err, &status):
		return fmt.Errorf("%w: status %d", ErrTransport, status.StatusCode)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrTransport, ctx.Err())
	default:
		return ErrTransport
	}
}
