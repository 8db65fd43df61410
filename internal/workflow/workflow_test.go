package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/redline/internal/prompts"
	"github.com/JaimeStill/redline/internal/workflow"
	"github.com/JaimeStill/redline/pkg/reasoning"
)

type invokeFunc func(ctx context.Context, prompt, modelKey string) (string, error)

func (f invokeFunc) Invoke(ctx context.Context, prompt, modelKey string) (string, error) {
	return f(ctx, prompt, modelKey)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func findingsJSON(ruleIDs ...string) string {
	parts := make([]string, len(ruleIDs))
	for i, id := range ruleIDs {
		parts[i] = fmt.Sprintf(`{"rule_id":%q,"title":"t","severity":"High","page_no":1,"confidence":0.9}`, id)
	}
	return `{"findings":[` + strings.Join(parts, ",") + `]}`
}

// chunkOf reports which repeated marker letter the prompt's excerpt holds.
func chunkOf(prompt string) byte {
	for _, c := range []byte("abc") {
		if strings.Contains(prompt, strings.Repeat(string(c), 64)) {
			return c
		}
	}
	return 0
}

func threeChunkDocument(size int) string {
	return strings.Repeat("a", size) + strings.Repeat("b", size) + strings.Repeat("c", size/2)
}

func TestExecuteEndToEnd(t *testing.T) {
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		switch chunkOf(prompt) {
		case 'a':
			return "```json\n" + findingsJSON("c0-f1", "c0-f2") + "\n```", nil
		case 'b':
			return "I could not complete this request, sorry!", nil
		case 'c':
			return findingsJSON("c2-f1"), nil
		}
		return "", errors.New("unexpected prompt")
	})

	rt := &workflow.Runtime{
		Invoker:   inv,
		Builder:   prompts.NewBuilder(prompts.MaxEmbeddedChars, ""),
		Logger:    discardLogger(),
		ChunkSize: 100_000,
	}

	text := threeChunkDocument(100_000)
	if len(text) != 250_000 {
		t.Fatalf("document length: got %d", len(text))
	}

	result, err := workflow.Execute(context.Background(), rt, workflow.Document{
		Filename:   "contract.pdf",
		Text:       text,
		TotalPages: 40,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.ChunkCount != 3 {
		t.Errorf("chunk_count: got %d, want 3", result.ChunkCount)
	}
	if result.Status != workflow.StatusCompleted {
		t.Errorf("status: got %s", result.Status)
	}
	if result.TotalPages != 40 {
		t.Errorf("total_pages: got %d", result.TotalPages)
	}
	if result.DocID == "" {
		t.Error("doc_id should be generated")
	}

	want := []string{"c0-f1", "c0-f2", "c2-f1"}
	if len(result.Findings) != len(want) {
		t.Fatalf("findings: got %d, want %d", len(result.Findings), len(want))
	}
	for i, id := range want {
		if result.Findings[i].RuleID != id {
			t.Errorf("findings[%d]: got %s, want %s", i, result.Findings[i].RuleID, id)
		}
		if result.Findings[i].Priority != prompts.PriorityP2 {
			t.Errorf("findings[%d] priority: got %s, want P2", i, result.Findings[i].Priority)
		}
	}
}

func TestExecutePreservesOrderUnderDelay(t *testing.T) {
	delays := map[byte]time.Duration{
		'a': 20 * time.Millisecond,
		'b': 0,
		'c': 80 * time.Millisecond,
	}

	var mu sync.Mutex
	var completed []byte

	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		c := chunkOf(prompt)
		time.Sleep(delays[c])

		mu.Lock()
		completed = append(completed, c)
		mu.Unlock()

		return findingsJSON(string(c)+"1", string(c)+"2"), nil
	})

	rt := &workflow.Runtime{
		Invoker:   inv,
		Logger:    discardLogger(),
		ChunkSize: 1000,
	}

	result, err := workflow.Execute(context.Background(), rt, workflow.Document{
		Text: threeChunkDocument(1000),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if completed[len(completed)-1] != 'c' {
		t.Fatalf("chunk c should complete last, order %q", completed)
	}

	want := []string{"a1", "a2", "b1", "b2", "c1", "c2"}
	if len(result.Findings) != len(want) {
		t.Fatalf("findings: got %d, want %d", len(result.Findings), len(want))
	}
	for i, id := range want {
		if result.Findings[i].RuleID != id {
			t.Errorf("findings[%d]: got %s, want %s", i, result.Findings[i].RuleID, id)
		}
	}
}

func TestExecuteFailsOnInvokerError(t *testing.T) {
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		if chunkOf(prompt) == 'b' {
			return "", fmt.Errorf("%w: status 503", reasoning.ErrTransport)
		}
		return findingsJSON("ok"), nil
	})

	rt := &workflow.Runtime{
		Invoker:   inv,
		Logger:    discardLogger(),
		ChunkSize: 1000,
	}

	result, err := workflow.Execute(context.Background(), rt, workflow.Document{
		Text: threeChunkDocument(1000),
	})

	if result != nil {
		t.Error("no partial result should be returned")
	}
	if !errors.Is(err, workflow.ErrAnalysisFailed) {
		t.Errorf("expected ErrAnalysisFailed, got %v", err)
	}
	if !errors.Is(err, reasoning.ErrTransport) {
		t.Errorf("expected ErrTransport in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "chunk 1") {
		t.Errorf("error should name the failing chunk: %v", err)
	}
}

func TestExecuteConfigurationError(t *testing.T) {
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		return "", fmt.Errorf("%w: token required", reasoning.ErrConfiguration)
	})

	rt := &workflow.Runtime{Invoker: inv, Logger: discardLogger()}

	_, err := workflow.Execute(context.Background(), rt, workflow.Document{Text: "short"})
	if !errors.Is(err, reasoning.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestExecuteOptions(t *testing.T) {
	var gotModel, gotPrompt string

	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		gotModel = modelKey
		gotPrompt = prompt
		return `{"errors":[{"rule_id":"R1"}]}`, nil
	})

	stamp := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rt := &workflow.Runtime{
		Invoker:    inv,
		Builder:    prompts.NewBuilder(0, "errors"),
		Logger:     discardLogger(),
		Model:      "default",
		Language:   "en",
		RecordKeys: []string{"errors"},
		Now:        func() time.Time { return stamp },
	}

	result, err := workflow.Execute(context.Background(), rt, workflow.Document{
		ID:       "fixed-id",
		Text:     "The supplier shall respond.",
		Language: "es",
		Model:    "fast",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if gotModel != "fast" {
		t.Errorf("model: got %q, want fast", gotModel)
	}
	if !strings.Contains(gotPrompt, "revisor de documentos") {
		t.Error("document language should override the runtime default")
	}
	if result.DocID != "fixed-id" {
		t.Errorf("doc_id: got %q", result.DocID)
	}
	if !result.CreatedAt.Equal(stamp) {
		t.Errorf("created_at: got %v, want %v", result.CreatedAt, stamp)
	}
	if len(result.Findings) != 1 {
		t.Errorf("findings: got %d, want 1", len(result.Findings))
	}
}

func TestExecuteEmptyDocument(t *testing.T) {
	calls := 0
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		calls++
		return `{"findings":[]}`, nil
	})

	rt := &workflow.Runtime{Invoker: inv, Logger: discardLogger(), ChunkSize: 100}

	result, err := workflow.Execute(context.Background(), rt, workflow.Document{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if calls != 1 || result.ChunkCount != 1 {
		t.Errorf("empty text should produce one chunk and one call, got %d calls", calls)
	}
	if result.Findings == nil || len(result.Findings) != 0 {
		t.Errorf("findings: got %v, want empty", result.Findings)
	}
}

func TestExecuteNoInvoker(t *testing.T) {
	_, err := workflow.Execute(context.Background(), &workflow.Runtime{}, workflow.Document{Text: "x"})
	if !errors.Is(err, workflow.ErrNoInvoker) {
		t.Errorf("expected ErrNoInvoker, got %v", err)
	}
}

func TestExecuteLogsNodeCompletion(t *testing.T) {
	var logs bytes.Buffer
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		return findingsJSON("R1"), nil
	})

	rt := &workflow.Runtime{
		Invoker:   inv,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
		ChunkSize: 100,
	}

	if _, err := workflow.Execute(context.Background(), rt, workflow.Document{ID: "doc-1", Text: "body"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out := logs.String()
	last := -1
	for _, msg := range []string{"chunk node complete", "analyze node complete", "merge node complete", "analysis complete"} {
		i := strings.Index(out, `msg="`+msg+`"`)
		if i < 0 {
			t.Errorf("missing %q log, got:\n%s", msg, out)
			continue
		}
		if i < last {
			t.Errorf("%q logged out of order", msg)
		}
		last = i
	}
	if !strings.Contains(out, "doc_id=doc-1") {
		t.Errorf("logs should carry doc_id, got:\n%s", out)
	}
}

func TestExecuteFailureStopsBeforeMerge(t *testing.T) {
	var logs bytes.Buffer
	inv := invokeFunc(func(ctx context.Context, prompt, modelKey string) (string, error) {
		return "", fmt.Errorf("%w: status 500", reasoning.ErrTransport)
	})

	rt := &workflow.Runtime{
		Invoker:   inv,
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
		ChunkSize: 100,
	}

	_, err := workflow.Execute(context.Background(), rt, workflow.Document{Text: "body"})
	if !errors.Is(err, workflow.ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	if strings.Contains(logs.String(), "merge node complete") {
		t.Error("merge should not run after a failed analyze node")
	}
	if !strings.Contains(logs.String(), `msg="analysis failed"`) {
		t.Errorf("missing failure log, got:\n%s", logs.String())
	}
}
