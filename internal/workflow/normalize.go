package workflow

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/redline/internal/prompts"
)

// Field names recognized for each Finding attribute, canonical name first.
var (
	keysRuleID     = []string{"rule_id", "rule", "ruleId"}
	keysTitle      = []string{"title", "name", "summary"}
	keysSeverity   = []string{"severity"}
	keysPriority   = []string{"priority"}
	keysPageNo     = []string{"page_no", "page", "page_number"}
	keysSnippet    = []string{"snippet", "quote", "excerpt"}
	keysSuggestion = []string{"suggestion", "recommendation", "fix"}
	keysConfidence = []string{"confidence", "score"}
)

// Normalize converts a raw record into a Finding. Missing or malformed
// fields take defaults; it never fails.
func Normalize(r RawRecord) Finding {
	severity, ok := prompts.ParseSeverity(stringField(r, keysSeverity))
	if !ok {
		severity = prompts.SeverityLow
	}

	priority, ok := prompts.ParsePriority(stringField(r, keysPriority))
	if !ok {
		priority = prompts.PriorityFor(severity)
	}

	page := 0
	if p := numberField(r, keysPageNo); p > 0 && p <= math.MaxInt32 {
		page = int(p)
	}

	return Finding{
		ID:         uuid.New(),
		RuleID:     stringField(r, keysRuleID),
		Title:      stringField(r, keysTitle),
		Severity:   severity,
		Priority:   priority,
		PageNo:     page,
		Snippet:    stringField(r, keysSnippet),
		Suggestion: stringField(r, keysSuggestion),
		Confidence: numberField(r, keysConfidence),
	}
}

// NormalizeAll converts records in order.
func NormalizeAll(records []map[string]any) []Finding {
	findings := make([]Finding, 0, len(records))
	for _, rec := range records {
		findings = append(findings, Normalize(RawRecord(rec)))
	}
	return findings
}

func stringField(r RawRecord, keys []string) string {
	v, ok := r.Lookup(keys...)
	if !ok {
		return ""
	}

	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func numberField(r RawRecord, keys []string) float64 {
	v, ok := r.Lookup(keys...)
	if !ok {
		return 0
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
