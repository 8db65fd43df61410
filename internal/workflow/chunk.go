package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/redline/pkg/chunking"
)

// ChunkNode returns a state node that splits the document text into
// chunks of at most rt.ChunkSize characters.
func ChunkNode(rt *Runtime, logger *slog.Logger) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := stateValue[Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("chunk: %w", err)
		}

		chunks := chunking.Split(doc.Text, rt.ChunkSize)

		logger.InfoContext(
			ctx, "chunk node complete",
			"filename", doc.Filename,
			"chars", len([]rune(doc.Text)),
			"chunk_count", len(chunks),
		)

		return s.Set(KeyChunks, chunks), nil
	})
}
