package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/redline/pkg/chunking"
)

// Execute runs the analysis workflow for a single document. It builds the
// state graph (chunk → analyze → merge), executes it, and extracts the
// AnalysisResult from the final state. Any reasoning failure fails the whole
// run and no partial result is returned.
func Execute(ctx context.Context, rt *Runtime, doc Document) (*AnalysisResult, error) {
	if rt.Invoker == nil {
		return nil, ErrNoInvoker
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	logger := rt.logger().With("doc_id", doc.ID)
	start := time.Now()

	graph, err := buildGraph(rt, logger)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyDocument, doc)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed", "error", err)
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := extractResult(finalState, doc, rt.now())
	if err != nil {
		return nil, err
	}

	logger.InfoContext(
		ctx, "analysis complete",
		"chunk_count", result.ChunkCount,
		"finding_count", len(result.Findings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func buildGraph(rt *Runtime, logger *slog.Logger) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("redline-analysis")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("chunk", ChunkNode(rt, logger)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", AnalyzeNode(rt, logger)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("merge", MergeNode(logger)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("chunk", "analyze", nil); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("analyze", "merge", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("chunk"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("merge"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(s state.State, doc Document, now time.Time) (*AnalysisResult, error) {
	chunks, err := stateValue[[]chunking.Chunk](s, KeyChunks)
	if err != nil {
		return nil, err
	}

	findings, err := stateValue[[]Finding](s, KeyFindings)
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		DocID:      doc.ID,
		Filename:   doc.Filename,
		TotalPages: max(doc.TotalPages, 0),
		ChunkCount: len(chunks),
		Findings:   findings,
		Status:     StatusCompleted,
		CreatedAt:  now,
	}, nil
}

// stateValue reads key from s as a T.
func stateValue[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s is %T, want %T", key, val, zero)
	}

	return v, nil
}

func choose(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func wrapChunk(index int, err error) error {
	return fmt.Errorf("%w: chunk %d: %w", ErrAnalysisFailed, index, err)
}
