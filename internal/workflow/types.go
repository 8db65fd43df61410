package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/redline/internal/prompts"
)

// State keys carried through the analysis graph.
const (
	KeyDocument      = "document"
	KeyChunks        = "chunks"
	KeyChunkFindings = "chunk_findings"
	KeyFindings      = "findings"
)

// Status is the lifecycle state of an analysis.
type Status string

// Analysis statuses.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// RawRecord is one unvalidated record recovered from model output.
// Normalize is the only conversion to Finding.
type RawRecord map[string]any

// Lookup returns the first present, non-null value among keys. Exact key
// matches win over case-insensitive ones.
func (r RawRecord) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	for _, k := range keys {
		for rk, v := range r {
			if v != nil && strings.EqualFold(rk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

// Finding is one canonical analysis record.
type Finding struct {
	ID         uuid.UUID        `json:"id"`
	RuleID     string           `json:"rule_id"`
	Title      string           `json:"title"`
	Severity   prompts.Severity `json:"severity"`
	Priority   prompts.Priority `json:"priority"`
	PageNo     int              `json:"page_no"`
	Snippet    string           `json:"snippet"`
	Suggestion string           `json:"suggestion"`
	Confidence float64          `json:"confidence"`
}

// Document is the extracted text submitted for analysis along with the
// per-request options that override the runtime defaults.
type Document struct {
	ID         string
	Filename   string
	Text       string
	TotalPages int
	Language   string
	Model      string
}

// AnalysisResult is the aggregated output of one document analysis.
type AnalysisResult struct {
	DocID      string    `json:"doc_id"`
	Filename   string    `json:"filename,omitempty"`
	TotalPages int       `json:"total_pages"`
	ChunkCount int       `json:"chunk_count"`
	Findings   []Finding `json:"findings"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
