package analyses

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/redline/internal/workflow"
	"github.com/JaimeStill/redline/pkg/cache"
)

// Store is the result cache shared between submission and retrieval.
type Store = cache.Cache[string, workflow.AnalysisResult]

type repo struct {
	store  *Store
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates a cache-backed analysis repository implementing the System interface.
func New(store *Store, rt *workflow.Runtime, logger *slog.Logger) System {
	return &repo{
		store:  store,
		rt:     rt,
		logger: logger.With("system", "analyses"),
	}
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, maxBodySize)
}

// Submit runs the workflow synchronously and caches the completed result
// stamped with its creation time. Failed runs are not cached.
func (r *repo) Submit(ctx context.Context, cmd SubmitCommand) (*workflow.AnalysisResult, error) {
	if fields := cmd.Validate(); fields != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, formatFields(fields))
	}

	docID := uuid.NewString()

	result, err := workflow.Execute(ctx, r.rt, cmd.Document(docID))
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", cmd.Filename, err)
	}

	r.store.SetAt(docID, *result, result.CreatedAt)

	r.logger.Info("document analyzed",
		"doc_id", docID,
		"filename", cmd.Filename,
		"chunk_count", result.ChunkCount,
		"finding_count", len(result.Findings),
	)
	return result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*workflow.AnalysisResult, error) {
	result, ok := r.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &result, nil
}

func (r *repo) Summary(ctx context.Context, id string) (*Summary, error) {
	entry, ok := r.store.Entry(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s := Summarize(entry.Value, r.store.TTL())
	s.ExpiresAt = entry.CreatedAt.Add(r.store.TTL())
	return &s, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	if _, ok := r.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.store.Delete(id)
	r.logger.Info("analysis deleted", "doc_id", id)
	return nil
}

func formatFields(fields map[string]string) string {
	keys := slices.Sorted(maps.Keys(fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + fields[k]
	}
	return strings.Join(parts, "; ")
}
