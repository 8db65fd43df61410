package reasoning_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaclient "github.com/JaimeStill/go-agents/pkg/client"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/JaimeStill/go-agents/pkg/mock"
	"github.com/JaimeStill/go-agents/pkg/response"

	"github.com/JaimeStill/redline/pkg/reasoning"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func finalized(t *testing.T, cfg reasoning.Config) reasoning.Config {
	t.Helper()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

// capture returns a factory that records the config it receives and hands
// back a.
func capture(a agent.Agent, got *gaconfig.AgentConfig, calls *int) reasoning.AgentFactory {
	return func(cfg *gaconfig.AgentConfig) (agent.Agent, error) {
		*calls++
		*got = *cfg
		return a, nil
	}
}

func TestInvokeMissingToken(t *testing.T) {
	var got gaconfig.AgentConfig
	calls := 0

	cfg := finalized(t, reasoning.Config{})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(capture(mock.NewSimpleChatAgent("a", "ok"), &got, &calls)),
	)

	_, err := client.Invoke(context.Background(), "prompt", "default")
	if !errors.Is(err, reasoning.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if calls != 0 {
		t.Errorf("no agent should be created without a token, got %d", calls)
	}
}

func TestInvokeAgentConfig(t *testing.T) {
	var got gaconfig.AgentConfig
	calls := 0

	cfg := finalized(t, reasoning.Config{
		Token:  "secret",
		Models: map[string]string{"default": "base-model", "fast": "fast-model"},
	})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(capture(mock.NewSimpleChatAgent("a", `{"findings":[]}`), &got, &calls)),
	)

	content, err := client.Invoke(context.Background(), "review this", "fast")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if content != `{"findings":[]}` {
		t.Errorf("content: got %q", content)
	}
	if calls != 1 {
		t.Fatalf("factory calls: got %d, want 1", calls)
	}

	if got.Model.Name != "fast-model" {
		t.Errorf("model: got %q, want fast-model", got.Model.Name)
	}
	if got.Provider.Name != "ollama" {
		t.Errorf("provider: got %q, want ollama", got.Provider.Name)
	}
	if got.Provider.Options["token"] != "secret" {
		t.Errorf("token option: got %v", got.Provider.Options["token"])
	}
	if got.Provider.Options["auth_type"] != "bearer" {
		t.Errorf("auth_type option: got %v", got.Provider.Options["auth_type"])
	}

	chat := got.Model.Capabilities["chat"]
	if chat["temperature"] != 0.1 {
		t.Errorf("temperature: got %v, want 0.1", chat["temperature"])
	}
	if chat["max_tokens"] != 4096 {
		t.Errorf("max_tokens: got %v, want 4096", chat["max_tokens"])
	}

	if got.Client.Retry.MaxRetries != 0 {
		t.Errorf("retries: got %d, want 0", got.Client.Retry.MaxRetries)
	}
	if got.Client.Timeout.ToDuration() != 5*time.Minute {
		t.Errorf("timeout: got %v, want 5m", got.Client.Timeout.ToDuration())
	}
}

func TestInvokeUnknownKeyFallsBack(t *testing.T) {
	var got gaconfig.AgentConfig
	calls := 0

	cfg := finalized(t, reasoning.Config{
		Token:  "t",
		Models: map[string]string{"default": "base-model"},
	})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(capture(mock.NewSimpleChatAgent("a", "ok"), &got, &calls)),
	)

	if _, err := client.Invoke(context.Background(), "p", "does-not-exist"); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got.Model.Name != "base-model" {
		t.Errorf("model: got %q, want base-model", got.Model.Name)
	}
}

func TestInvokeFactoryError(t *testing.T) {
	cfg := finalized(t, reasoning.Config{Token: "t"})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(func(*gaconfig.AgentConfig) (agent.Agent, error) {
			return nil, errors.New("unsupported provider")
		}),
	)

	_, err := client.Invoke(context.Background(), "p", "default")
	if !errors.Is(err, reasoning.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestInvokeStatusErrorOmitsBody(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	upstream := &gaclient.HTTPStatusError{
		StatusCode: http.StatusServiceUnavailable,
		Status:     "503 Service Unavailable",
		Body:       []byte("internal upstream detail"),
	}

	cfg := finalized(t, reasoning.Config{Token: "t"})
	client := reasoning.New(cfg, logger,
		reasoning.WithAgentFactory(func(*gaconfig.AgentConfig) (agent.Agent, error) {
			return mock.NewFailingAgent("a", upstream), nil
		}),
	)

	_, err := client.Invoke(context.Background(), "p", "default")
	if !errors.Is(err, reasoning.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if strings.Contains(err.Error(), "internal upstream detail") {
		t.Errorf("error should not carry the provider body: %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry the status code: %v", err)
	}
	if !strings.Contains(logs.String(), "internal upstream detail") {
		t.Errorf("provider body should be logged, got %q", logs.String())
	}
}

func TestInvokeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := finalized(t, reasoning.Config{Token: "t"})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(func(*gaconfig.AgentConfig) (agent.Agent, error) {
			return mock.NewFailingAgent("a", ctx.Err()), nil
		}),
	)

	_, err := client.Invoke(ctx, "p", "default")
	if !errors.Is(err, reasoning.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInvokeNoChoices(t *testing.T) {
	cfg := finalized(t, reasoning.Config{Token: "t"})
	client := reasoning.New(cfg, testLogger(),
		reasoning.WithAgentFactory(func(*gaconfig.AgentConfig) (agent.Agent, error) {
			return mock.NewMockAgent(mock.WithChatResponse(&response.ChatResponse{}, nil)), nil
		}),
	)

	content, err := client.Invoke(context.Background(), "p", "default")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if content != "" {
		t.Errorf("content: got %q, want empty", content)
	}
}

func TestInvokeRequestShape(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var path, auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"{\"findings\":[]}"}}]}`)
	}))
	defer srv.Close()

	cfg := finalized(t, reasoning.Config{
		BaseURL: srv.URL + "/v1/",
		Token:   "secret",
		Models:  map[string]string{"default": "base-model", "fast": "fast-model"},
	})
	client := reasoning.New(cfg, testLogger())

	content, err := client.Invoke(context.Background(), "review this", "fast")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if content != `{"findings":[]}` {
		t.Errorf("content: got %q", content)
	}
	if path != "/v1/chat/completions" {
		t.Errorf("path: got %q", path)
	}
	if auth != "Bearer secret" {
		t.Errorf("authorization: got %q", auth)
	}
	if got.Model != "fast-model" {
		t.Errorf("model: got %q, want fast-model", got.Model)
	}
	if got.Temperature != 0.1 {
		t.Errorf("temperature: got %v, want 0.1", got.Temperature)
	}
	if got.MaxTokens != 4096 {
		t.Errorf("max_tokens: got %d, want 4096", got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "review this" {
		t.Errorf("messages: got %+v", got.Messages)
	}
}

func TestInvokeTransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded: shard 7", http.StatusServiceUnavailable)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad key: sk-1234", http.StatusUnauthorized)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "not json")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cfg := finalized(t, reasoning.Config{BaseURL: srv.URL, Token: "t"})
			client := reasoning.New(cfg, testLogger())

			_, err := client.Invoke(context.Background(), "p", "default")
			if !errors.Is(err, reasoning.ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			for _, leak := range []string{"shard 7", "sk-1234", "not json"} {
				if strings.Contains(err.Error(), leak) {
					t.Errorf("error carries response content %q: %v", leak, err)
				}
			}
		})
	}
}

func TestInvokeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := finalized(t, reasoning.Config{BaseURL: url, Token: "t"})
	client := reasoning.New(cfg, testLogger())

	_, err := client.Invoke(context.Background(), "p", "default")
	if !errors.Is(err, reasoning.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
