// Package formatting parses loosely formatted values: human-readable byte
// sizes from configuration and structured records out of free-text model
// output.
package formatting

import (
	"fmt"
	"strconv"
	"strings"
)

var byteUnits = map[string]int64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseBytes parses a size such as "50MB", "512 kb", or "1024" into bytes.
// Units are base-1024 and case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}

	if number == "" {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	multiplier, ok := byteUnits[strings.ToUpper(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", unit)
	}

	return int64(value * float64(multiplier)), nil
}
