package prompts

import (
	"encoding/json"
	"slices"
	"strings"
)

// Severity ranks the impact of a finding.
type Severity string

// Valid severities, most to least severe.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

var severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// Severities returns the valid severities, most severe first.
func Severities() []Severity {
	return severities
}

// ParseSeverity matches s case-insensitively against the valid severities.
func ParseSeverity(s string) (Severity, bool) {
	s = strings.TrimSpace(s)
	for _, v := range severities {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return "", false
}

// Priority ranks how urgently a finding should be addressed.
type Priority string

// Valid priorities.
const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

var priorities = []Priority{
	PriorityP1,
	PriorityP2,
	PriorityP3,
}

// Priorities returns the valid priorities, most urgent first.
func Priorities() []Priority {
	return priorities
}

// ParsePriority matches the leading characters of s case-insensitively
// against the valid priorities, so "p1 - urgent" resolves to P1.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, v := range priorities {
		if strings.HasPrefix(s, string(v)) {
			return v, true
		}
	}
	return "", false
}

// PriorityFor infers a priority from a severity.
func PriorityFor(s Severity) Priority {
	switch s {
	case SeverityCritical:
		return PriorityP1
	case SeverityHigh:
		return PriorityP2
	default:
		return PriorityP3
	}
}

// UnmarshalJSON validates that the decoded string is a known priority value.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Priority(raw)
	if !slices.Contains(priorities, v) {
		return ErrInvalidPriority
	}
	*p = v
	return nil
}
