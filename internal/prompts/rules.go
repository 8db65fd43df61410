package prompts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RuleSpec describes one thing the reasoning service must look for.
type RuleSpec struct {
	ID          string   `json:"id" validate:"required,max=64"`
	Description string   `json:"description" validate:"required"`
	Priority    Priority `json:"priority" validate:"required,oneof=P1 P2 P3"`
}

var defaultRules = []RuleSpec{
	{
		ID:          "REQ-MANDATORY",
		Description: "Mandatory obligations (shall, must, is required to) that are ambiguous, untestable, or missing an owner.",
		Priority:    PriorityP1,
	},
	{
		ID:          "REQ-DEADLINE",
		Description: "Dates, durations, and deadlines that are missing, contradictory, or unrealistic.",
		Priority:    PriorityP1,
	},
	{
		ID:          "REQ-CONFLICT",
		Description: "Statements that contradict another statement in the same text.",
		Priority:    PriorityP1,
	},
	{
		ID:          "REQ-REFERENCE",
		Description: "References to sections, attachments, standards, or defined terms that do not exist or cannot be resolved.",
		Priority:    PriorityP2,
	},
	{
		ID:          "REQ-MEASURABLE",
		Description: "Quantities, thresholds, or acceptance criteria stated without units, tolerances, or a measurement method.",
		Priority:    PriorityP2,
	},
	{
		ID:          "DOC-LANGUAGE",
		Description: "Spelling, grammar, and terminology errors that change or obscure the meaning of the text.",
		Priority:    PriorityP3,
	},
	{
		ID:          "DOC-FORMAT",
		Description: "Inconsistent numbering, headings, or list structure.",
		Priority:    PriorityP3,
	},
}

// DefaultRules returns a copy of the built-in rule table.
func DefaultRules() []RuleSpec {
	rules := make([]RuleSpec, len(defaultRules))
	copy(rules, defaultRules)
	return rules
}

// LoadRules reads a rule table from a JSON array of rules at path and
// validates it. An empty path yields the built-in table.
func LoadRules(path string) ([]RuleSpec, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rules []RuleSpec
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRules, path, err)
	}

	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// FindRule returns the rule with the given id.
func FindRule(rules []RuleSpec, id string) (RuleSpec, error) {
	for _, r := range rules {
		if strings.EqualFold(r.ID, id) {
			return r, nil
		}
	}
	return RuleSpec{}, ErrRuleNotFound
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRules checks every rule's fields and rejects duplicate ids.
func ValidateRules(rules []RuleSpec) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidRules)
	}

	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if err := validate.Struct(r); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
				e := errs[0]
				return fmt.Errorf("%w: rule %d: %s failed on '%s' tag", ErrInvalidRules, i, e.Field(), e.Tag())
			}
			return fmt.Errorf("%w: rule %d: %w", ErrInvalidRules, i, err)
		}
		key := strings.ToUpper(r.ID)
		if seen[key] {
			return fmt.Errorf("%w: duplicate rule id %s", ErrInvalidRules, r.ID)
		}
		seen[key] = true
	}

	return nil
}
