package analyses

import (
	"context"

	"github.com/JaimeStill/redline/internal/workflow"
)

// System defines the public contract for analysis domain operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	Submit(ctx context.Context, cmd SubmitCommand) (*workflow.AnalysisResult, error)
	Find(ctx context.Context, id string) (*workflow.AnalysisResult, error)
	Summary(ctx context.Context, id string) (*Summary, error)
	Delete(ctx context.Context, id string) error
}
