package analyses_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/redline/internal/analyses"
	"github.com/JaimeStill/redline/internal/workflow"
	"github.com/JaimeStill/redline/pkg/cache"
	"github.com/JaimeStill/redline/pkg/reasoning"
)

type invokeFunc func(ctx context.Context, prompt, modelKey string) (string, error)

func (f invokeFunc) Invoke(ctx context.Context, prompt, modelKey string) (string, error) {
	return f(ctx, prompt, modelKey)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

const twoFindings = `{"findings":[
	{"rule_id":"REQ-DEADLINE","title":"No date","severity":"Critical","page_no":"2","confidence":0.92},
	{"rule_id":"DOC-LANGUAGE","title":"Typo","severity":"Low","priority":"P3","page_no":5,"confidence":0.8}
]}`

func newSystem(t *testing.T, inv workflow.Invoker) (analyses.System, *clock) {
	t.Helper()

	clk := &clock{now: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := cache.New[string, workflow.AnalysisResult](cache.DefaultTTL, cache.WithClock(clk.Now))
	rt := &workflow.Runtime{
		Invoker:   inv,
		Logger:    logger,
		ChunkSize: 100_000,
		Now:       clk.Now,
	}

	return analyses.New(store, rt, logger), clk
}

func staticInvoker(content string) workflow.Invoker {
	return invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		return content, nil
	})
}

func failingInvoker() workflow.Invoker {
	return invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		return "", fmt.Errorf("%w: status 500", reasoning.ErrTransport)
	})
}

func validCommand() analyses.SubmitCommand {
	return analyses.SubmitCommand{
		Filename:   "tender.pdf",
		Text:       "The bidder shall submit the proposal by the deadline.",
		TotalPages: 12,
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", analyses.ErrNotFound, http.StatusNotFound},
		{"invalid request", analyses.ErrInvalidRequest, http.StatusBadRequest},
		{"body too large", analyses.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"configuration", reasoning.ErrConfiguration, http.StatusInternalServerError},
		{"transport", reasoning.ErrTransport, http.StatusBadGateway},
		{
			"wrapped transport",
			fmt.Errorf("analyze x: %w", fmt.Errorf("%w: chunk 0: %w", workflow.ErrAnalysisFailed, reasoning.ErrTransport)),
			http.StatusBadGateway,
		},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyses.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSubmitCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     analyses.SubmitCommand
		invalid []string
	}{
		{"valid", validCommand(), nil},
		{"missing filename", analyses.SubmitCommand{Text: "x"}, []string{"Filename"}},
		{"missing text", analyses.SubmitCommand{Filename: "a.pdf"}, []string{"Text"}},
		{"negative pages", analyses.SubmitCommand{Filename: "a.pdf", Text: "x", TotalPages: -1}, []string{"TotalPages"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.cmd.Validate()
			if len(fields) != len(tt.invalid) {
				t.Fatalf("fields: got %v, want %v", fields, tt.invalid)
			}
			for _, f := range tt.invalid {
				if _, ok := fields[f]; !ok {
					t.Errorf("expected %s to fail validation, got %v", f, fields)
				}
			}
		})
	}
}

func TestSubmitAndFind(t *testing.T) {
	sys, _ := newSystem(t, staticInvoker(twoFindings))
	ctx := context.Background()

	result, err := sys.Submit(ctx, validCommand())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.DocID == "" {
		t.Fatal("doc_id should be assigned")
	}
	if result.Status != workflow.StatusCompleted {
		t.Errorf("status: got %s", result.Status)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("findings: got %d, want 2", len(result.Findings))
	}

	found, err := sys.Find(ctx, result.DocID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.DocID != result.DocID || len(found.Findings) != 2 {
		t.Errorf("found: got %+v", found)
	}
}

func TestFindExpires(t *testing.T) {
	sys, clk := newSystem(t, staticInvoker(twoFindings))
	ctx := context.Background()

	result, err := sys.Submit(ctx, validCommand())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	clk.Advance(3_599_000 * time.Millisecond)
	if _, err := sys.Find(ctx, result.DocID); err != nil {
		t.Fatalf("Find within TTL: %v", err)
	}

	clk.Advance(2_000 * time.Millisecond)
	if _, err := sys.Find(ctx, result.DocID); !errors.Is(err, analyses.ErrNotFound) {
		t.Errorf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestSubmitInvalid(t *testing.T) {
	calls := 0
	sys, _ := newSystem(t, invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		calls++
		return "", nil
	}))

	_, err := sys.Submit(context.Background(), analyses.SubmitCommand{Filename: "a.pdf"})
	if !errors.Is(err, analyses.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if calls != 0 {
		t.Errorf("invalid commands should not reach the invoker, got %d calls", calls)
	}
}

func TestSubmitFailureNotCached(t *testing.T) {
	sys, _ := newSystem(t, failingInvoker())

	result, err := sys.Submit(context.Background(), validCommand())
	if result != nil {
		t.Error("failed submit should return no result")
	}
	if !errors.Is(err, reasoning.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
	if analyses.MapHTTPStatus(err) != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", analyses.MapHTTPStatus(err))
	}
}

func TestSummary(t *testing.T) {
	sys, _ := newSystem(t, staticInvoker(twoFindings))
	ctx := context.Background()

	result, err := sys.Submit(ctx, validCommand())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s, err := sys.Summary(ctx, result.DocID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if s.FindingCount != 2 {
		t.Errorf("finding_count: got %d", s.FindingCount)
	}
	if s.BySeverity["Critical"] != 1 || s.BySeverity["Low"] != 1 {
		t.Errorf("by_severity: got %v", s.BySeverity)
	}
	if s.ByPriority["P1"] != 1 || s.ByPriority["P3"] != 1 {
		t.Errorf("by_priority: got %v", s.ByPriority)
	}
	if s.ByRule["REQ-DEADLINE"] != 1 || s.ByRule["DOC-LANGUAGE"] != 1 {
		t.Errorf("by_rule: got %v", s.ByRule)
	}
	if !s.ExpiresAt.Equal(result.CreatedAt.Add(cache.DefaultTTL)) {
		t.Errorf("expires_at: got %v", s.ExpiresAt)
	}
}

func TestSummarizeUnassigned(t *testing.T) {
	s := analyses.Summarize(workflow.AnalysisResult{
		Findings: []workflow.Finding{{Severity: "Low", Priority: "P3"}},
	}, time.Hour)

	if s.ByRule["unassigned"] != 1 {
		t.Errorf("by_rule: got %v", s.ByRule)
	}
}

func TestDelete(t *testing.T) {
	sys, _ := newSystem(t, staticInvoker(twoFindings))
	ctx := context.Background()

	result, err := sys.Submit(ctx, validCommand())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := sys.Delete(ctx, result.DocID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sys.Find(ctx, result.DocID); !errors.Is(err, analyses.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := sys.Delete(ctx, result.DocID); !errors.Is(err, analyses.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}
