// Package analyses implements the analysis domain for Redline.
// It submits extracted document text to the workflow engine and holds the
// aggregated results in a TTL cache until they are retrieved or expire.
package analyses

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JaimeStill/redline/internal/workflow"
)

// SubmitCommand carries extracted document text for analysis.
// Language and Model override the service defaults when set.
type SubmitCommand struct {
	Filename   string `json:"filename" validate:"required,max=255"`
	Text       string `json:"text" validate:"required"`
	TotalPages int    `json:"total_pages" validate:"gte=0"`
	Language   string `json:"language,omitempty" validate:"omitempty,max=32"`
	Model      string `json:"model,omitempty" validate:"omitempty,max=64"`
}

var validate = validator.New()

// Validate checks the command fields and returns a map of field to failed
// tag, or nil when the command is valid.
func (c *SubmitCommand) Validate() map[string]string {
	if err := validate.Struct(c); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"command": err.Error()}
		}
		fields := make(map[string]string, len(errs))
		for _, e := range errs {
			fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return fields
	}
	return nil
}

// Document converts the command into a workflow document keyed by id.
func (c *SubmitCommand) Document(id string) workflow.Document {
	return workflow.Document{
		ID:         id,
		Filename:   c.Filename,
		Text:       c.Text,
		TotalPages: c.TotalPages,
		Language:   c.Language,
		Model:      c.Model,
	}
}

// Summary reports finding counts for a cached analysis.
type Summary struct {
	DocID        string         `json:"doc_id"`
	Filename     string         `json:"filename,omitempty"`
	TotalPages   int            `json:"total_pages"`
	ChunkCount   int            `json:"chunk_count"`
	FindingCount int            `json:"finding_count"`
	BySeverity   map[string]int `json:"by_severity"`
	ByPriority   map[string]int `json:"by_priority"`
	ByRule       map[string]int `json:"by_rule"`
	CreatedAt    time.Time      `json:"created_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
}

// Summarize counts the findings of result by severity, priority, and rule.
// Findings without a rule id are counted under "unassigned".
func Summarize(result workflow.AnalysisResult, ttl time.Duration) Summary {
	s := Summary{
		DocID:        result.DocID,
		Filename:     result.Filename,
		TotalPages:   result.TotalPages,
		ChunkCount:   result.ChunkCount,
		FindingCount: len(result.Findings),
		BySeverity:   make(map[string]int),
		ByPriority:   make(map[string]int),
		ByRule:       make(map[string]int),
		CreatedAt:    result.CreatedAt,
		ExpiresAt:    result.CreatedAt.Add(ttl),
	}

	for _, f := range result.Findings {
		s.BySeverity[string(f.Severity)]++
		s.ByPriority[string(f.Priority)]++

		rule := f.RuleID
		if rule == "" {
			rule = "unassigned"
		}
		s.ByRule[rule]++
	}

	return s
}
