package prompts

import (
	"fmt"
	"strings"
)

// MinConfidence is the lowest confidence a reported finding may carry.
const MinConfidence = 0.7

// MaxFindingsPerRule caps how many findings the service may report for
// one rule in one excerpt.
const MaxFindingsPerRule = 5

const contractTemplate = `Respond with a JSON object matching this exact structure:

{
  "%[1]s": [
    {
      "rule_id": "<rule id>",
      "title": "<short title>",
      "severity": "<%[2]s>",
      "priority": "<%[3]s>",
      "page_no": 0,
      "snippet": "<verbatim excerpt>",
      "suggestion": "<how to fix it>",
      "confidence": 0.0
    }
  ]
}

Field constraints:
- rule_id: The id of the rule the finding violates, exactly as listed.
- severity: One of %[4]s.
- priority: One of %[5]s. Use the rule's priority unless the finding
  clearly warrants a different one.
- page_no: The page number the snippet appears on, or 0 when unknown.
- snippet: Quote the offending text exactly; do not paraphrase.
- confidence: A number between 0 and 1.

Behavioral constraints:
- Omit any finding with confidence below %[6]g
- Report at most %[7]d findings per rule
- Report only what appears in the excerpt
- When nothing violates a rule, return an empty "%[1]s" array
- Output valid JSON only, with no markdown fencing and no prose`

// Contract renders the output contract for records stored under key.
func Contract(key string) string {
	return fmt.Sprintf(
		contractTemplate,
		key,
		joinLevels(Severities(), "|"),
		joinLevels(Priorities(), "|"),
		joinLevels(Severities(), ", "),
		joinLevels(Priorities(), ", "),
		MinConfidence,
		MaxFindingsPerRule,
	)
}

func joinLevels[T ~string](levels []T, sep string) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = string(l)
	}
	return strings.Join(parts, sep)
}
