package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// Merge concatenates per-chunk findings in chunk index order. It never
// returns nil.
func Merge(chunks [][]Finding) []Finding {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}

	merged := make([]Finding, 0, total)
	for _, c := range chunks {
		merged = append(merged, c...)
	}
	return merged
}

// MergeNode returns a state node that flattens the per-chunk findings into
// the final ordered list.
func MergeNode(logger *slog.Logger) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		perChunk, err := stateValue[[][]Finding](s, KeyChunkFindings)
		if err != nil {
			return s, fmt.Errorf("merge: %w", err)
		}

		findings := Merge(perChunk)

		logger.InfoContext(
			ctx, "merge node complete",
			"finding_count", len(findings),
		)

		return s.Set(KeyFindings, findings), nil
	})
}
