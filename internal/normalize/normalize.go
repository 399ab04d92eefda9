// Package normalize turns loosely typed spreadsheet and OCR values into clean
// integers, strings and join keys.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Int converts a raw cell value into an integer. It never fails: empty,
// non-numeric and non-finite input yields 0. Thousands separators are
// stripped, floats are truncated toward zero and the sign is preserved.
func Int(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return truncate(float64(n))
	case float64:
		return truncate(n)
	case json.Number:
		return parseString(n.String())
	case string:
		return parseString(n)
	case []byte:
		return parseString(string(n))
	default:
		return 0
	}
}

// parseString strips separators and parses s. When s does not parse as a
// whole, the leading signed digit run is used ("12 คน" -> 12), matching how
// spreadsheet tooling reads partially numeric cells.
func parseString(s string) int {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(v)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return truncate(f)
	}
	return leadingInt(s)
}

func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int(math.Trunc(f))
}

// Text renders a raw cell as a trimmed string. Numbers are formatted without
// exponent so a district stored as 1 and "1" compare equal.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return strings.TrimSpace(t.String())
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Number parses a converter cell: after trimming and stripping commas, a
// value that is a valid number is returned as float64 with ok=true.
func Number(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
