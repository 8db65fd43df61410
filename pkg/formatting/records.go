package formatting

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// ErrExhausted is returned by an individual recovery strategy when it
// cannot extract records from the content.
var ErrExhausted = errors.New("no records recovered")

// DefaultRecordKeys names the envelope field searched when no keys are given.
var DefaultRecordKeys = []string{"findings"}

// Strategy identifies which recovery path produced a set of records.
type Strategy string

const (
	StrategyStrict    Strategy = "strict"
	StrategyRepaired  Strategy = "repaired"
	StrategyScanned   Strategy = "scanned"
	StrategyExhausted Strategy = "exhausted"
)

// Recovery is the outcome of Recover: the records extracted and the
// strategy that produced them.
type Recovery struct {
	Records  []map[string]any
	Strategy Strategy
}

// Degraded reports whether the strict parse failed.
func (r Recovery) Degraded() bool {
	return r.Strategy != StrategyStrict
}

type strategy struct {
	name Strategy
	fn   func(string, ...string) ([]map[string]any, error)
}

var strategies = []strategy{
	{StrategyStrict, ParseStrict},
	{StrategyRepaired, RepairTruncated},
	{StrategyScanned, ScanObjects},
}

var fenceBlock = regexp.MustCompile("(?s)```[A-Za-z]*\\s*\\n?(.*?)\\n?```")

// ParseRecords extracts the record array from model output. It never fails:
// when every strategy is exhausted it returns an empty slice.
func ParseRecords(content string, keys ...string) []map[string]any {
	return Recover(content, keys...).Records
}

// Recover runs the strict, repair, and scan strategies in order and returns
// the first result that succeeds. A strict parse of an empty array is a
// success with zero records.
func Recover(content string, keys ...string) Recovery {
	if len(keys) == 0 {
		keys = DefaultRecordKeys
	}

	for _, s := range strategies {
		if records, err := s.fn(content, keys...); err == nil {
			return Recovery{Records: records, Strategy: s.name}
		}
	}

	return Recovery{Records: []map[string]any{}, Strategy: StrategyExhausted}
}

// StripFences removes markdown code-fence markers. A fenced block anywhere in
// the content wins; otherwise a leading fence line and trailing fence are
// trimmed individually, which covers output truncated before its closing fence.
func StripFences(content string) string {
	content = strings.TrimSpace(content)

	if m := fenceBlock.FindStringSubmatch(content); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}

	if rest, ok := strings.CutPrefix(content, "```"); ok {
		if _, body, found := strings.Cut(rest, "\n"); found {
			content = body
		} else {
			content = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}

// ParseStrict decodes the fence-stripped content as a single JSON document
// and extracts the records array from the first matching key. A bare
// top-level array of objects is accepted as the records array itself.
func ParseStrict(content string, keys ...string) ([]map[string]any, error) {
	if len(keys) == 0 {
		keys = DefaultRecordKeys
	}

	doc, err := decodeDocument(StripFences(content))
	if err != nil {
		return nil, ErrExhausted
	}

	switch v := doc.(type) {
	case []any:
		if err := validateRecords(v); err != nil {
			return nil, ErrExhausted
		}
		return toRecords(v), nil
	case map[string]any:
		for _, key := range keys {
			if _, ok := v[key]; !ok {
				continue
			}
			if err := validateEnvelope(key, v); err != nil {
				return nil, ErrExhausted
			}
			return toRecords(v[key].([]any)), nil
		}
	}

	return nil, ErrExhausted
}

// RepairTruncated handles output cut off mid-array: it discards everything
// after the last complete record, closes the brackets still open at that
// point, and retries the strict parse.
func RepairTruncated(content string, keys ...string) ([]map[string]any, error) {
	s := StripFences(content)

	boundary, open := lastRecordBoundary(s)
	if boundary < 0 {
		return nil, ErrExhausted
	}

	var sb strings.Builder
	sb.Grow(boundary + 1 + len(open))
	sb.WriteString(s[:boundary+1])
	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == '[' {
			sb.WriteByte(']')
		} else {
			sb.WriteByte('}')
		}
	}

	return ParseStrict(sb.String(), keys...)
}

// ScanObjects walks the content tracking brace depth and decodes every
// balanced top-level object on its own, keeping those that parse. An object
// carrying a records key contributes its records, and a malformed one is
// scanned again from the inside. When the content ends inside an unclosed
// object the scan resumes just inside it.
func ScanObjects(content string, keys ...string) ([]map[string]any, error) {
	if len(keys) == 0 {
		keys = DefaultRecordKeys
	}

	records := scanFrom(StripFences(content), keys)
	if len(records) == 0 {
		return nil, ErrExhausted
	}
	return records, nil
}

// scanner is the string-aware bracket state shared by the repair and scan
// strategies.
type scanner struct {
	inString bool
	escaped  bool
}

// step reports whether c is structural, meaning outside any string literal.
func (sc *scanner) step(c byte) bool {
	if sc.inString {
		switch {
		case sc.escaped:
			sc.escaped = false
		case c == '\\':
			sc.escaped = true
		case c == '"':
			sc.inString = false
		}
		return false
	}

	if c == '"' {
		sc.inString = true
		return false
	}
	return true
}

func lastRecordBoundary(s string) (int, []byte) {
	var (
		sc       scanner
		stack    []byte
		boundary = -1
		open     []byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !sc.step(c) {
			continue
		}

		switch c {
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return boundary, open
			}
			stack = stack[:len(stack)-1]
			if c == '}' && inRecordsArray(stack) {
				boundary = i
				open = append(open[:0], stack...)
			}
		}
	}

	return boundary, open
}

// inRecordsArray reports whether stack is positioned directly inside the
// records array: a bare top-level array or an array held by the envelope.
// Arrays nested inside a record do not qualify.
func inRecordsArray(stack []byte) bool {
	switch len(stack) {
	case 1:
		return stack[0] == '['
	case 2:
		return stack[0] == '{' && stack[1] == '['
	}
	return false
}

func scanFrom(s string, keys []string) []map[string]any {
	var (
		sc      scanner
		records []map[string]any
		depth   int
		start   = -1
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		// Quotes outside any object are prose, not string literals.
		if depth > 0 && !sc.step(c) {
			continue
		}

		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				found := decodeCandidate(candidate, keys)
				if found == nil && mentionsKey(candidate, keys) {
					found = scanFrom(s[start+1:i], keys)
				}
				records = append(records, found...)
				start = -1
			}
		}
	}

	if depth > 0 && start >= 0 {
		records = append(records, scanFrom(s[start+1:], keys)...)
	}

	return records
}

func decodeCandidate(raw string, keys []string) []map[string]any {
	doc, err := decodeDocument(raw)
	if err != nil {
		return nil
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	for _, key := range keys {
		if v, ok := obj[key]; ok {
			items, _ := v.([]any)
			return toRecords(items)
		}
	}

	return []map[string]any{obj}
}

func mentionsKey(s string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(s, `"`+key+`"`) {
			return true
		}
	}
	return false
}

func decodeDocument(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing content after document")
	}

	return doc, nil
}

func toRecords(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, obj)
		}
	}
	return records
}
