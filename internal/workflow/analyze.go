package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/redline/pkg/chunking"
	"github.com/JaimeStill/redline/pkg/formatting"
)

// AnalyzeNode returns a state node that analyzes every chunk concurrently
// and stores the per-chunk findings in chunk order.
func AnalyzeNode(rt *Runtime, logger *slog.Logger) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := stateValue[Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		chunks, err := stateValue[[]chunking.Chunk](s, KeyChunks)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		perChunk, err := analyzeChunks(ctx, rt, logger, doc, chunks)
		if err != nil {
			return s, err
		}

		logger.InfoContext(
			ctx, "analyze node complete",
			"chunk_count", len(chunks),
		)

		return s.Set(KeyChunkFindings, perChunk), nil
	})
}

// analyzeChunks fans out one reasoning call per chunk with no concurrency
// limit. Each goroutine writes only its own slot, so the returned slice is
// in chunk index order regardless of completion order. Unparsable output
// yields zero findings for that chunk.
func analyzeChunks(
	ctx context.Context,
	rt *Runtime,
	logger *slog.Logger,
	doc Document,
	chunks []chunking.Chunk,
) ([][]Finding, error) {
	results := make([][]Finding, len(chunks))

	language := choose(doc.Language, rt.Language)
	model := choose(doc.Model, rt.Model)
	rules := rt.rules()
	keys := rt.RecordKeys

	g, gctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			if gctx.Err() != nil {
				return wrapChunk(chunk.Index, gctx.Err())
			}

			prompt := rt.Builder.Build(chunk.Text, rules, language)

			raw, err := rt.Invoker.Invoke(gctx, prompt, model)
			if err != nil {
				return wrapChunk(chunk.Index, err)
			}

			recovery := formatting.Recover(raw, keys...)
			results[i] = NormalizeAll(recovery.Records)

			attrs := []any{
				"chunk", chunk.Index,
				"chars", chunk.Len(),
				"strategy", recovery.Strategy,
				"findings", len(results[i]),
			}
			if recovery.Degraded() {
				logger.WarnContext(gctx, "chunk output degraded", attrs...)
			} else {
				logger.InfoContext(gctx, "chunk analyzed", attrs...)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
