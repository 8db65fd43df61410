// Package prompts renders the instruction document sent to the reasoning
// service for one chunk of text: a framing sentence, the rule table, the
// excerpt, and a strict output contract.
package prompts

import (
	"strings"
	"unicode/utf8"
)

// MaxEmbeddedChars bounds how many characters of a chunk are embedded in a
// prompt. It applies regardless of how the text was chunked.
const MaxEmbeddedChars = 80_000

// DefaultRecordKey names the array the output contract asks for.
const DefaultRecordKey = "findings"

// Builder renders prompts with a configurable embed limit and record key.
type Builder struct {
	EmbedLimit int
	RecordKey  string
}

// NewBuilder creates a Builder. Non-positive limits and empty keys fall
// back to MaxEmbeddedChars and DefaultRecordKey.
func NewBuilder(embedLimit int, recordKey string) Builder {
	if embedLimit <= 0 {
		embedLimit = MaxEmbeddedChars
	}
	if recordKey == "" {
		recordKey = DefaultRecordKey
	}
	return Builder{EmbedLimit: embedLimit, RecordKey: recordKey}
}

// Build renders the prompt for chunkText against rules in language using
// the default Builder.
func Build(chunkText string, rules []RuleSpec, language string) string {
	return NewBuilder(0, "").Build(chunkText, rules, language)
}

// Build renders the prompt. Output depends only on the inputs.
func (b Builder) Build(chunkText string, rules []RuleSpec, language string) string {
	b = NewBuilder(b.EmbedLimit, b.RecordKey)

	var sb strings.Builder

	sb.WriteString(Framing(language))
	sb.WriteString("\n\n# Rules\n\n")
	sb.WriteString(RuleTable(rules))
	sb.WriteString("\n# Document excerpt\n\n<<<\n")
	sb.WriteString(Truncate(chunkText, b.EmbedLimit))
	sb.WriteString("\n>>>\n\n# Output\n\n")
	sb.WriteString(Contract(b.RecordKey))
	sb.WriteString("\n")

	return sb.String()
}

// RuleTable renders rules as an "id | priority | description" table.
func RuleTable(rules []RuleSpec) string {
	var sb strings.Builder
	sb.WriteString("id | priority | description\n")
	for _, r := range rules {
		sb.WriteString(r.ID)
		sb.WriteString(" | ")
		sb.WriteString(string(r.Priority))
		sb.WriteString(" | ")
		sb.WriteString(r.Description)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Truncate returns at most limit characters of text, never splitting a
// multi-byte character.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
