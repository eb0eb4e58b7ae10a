// Package parser turns decoded sheet rows into the typed quiz records. Nothing
// here fails: malformed or missing cells resolve to documented defaults.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnknownPlayer is the identity given to event rows with no player cell.
const UnknownPlayer = "Unknown Player"

// numericPrefix matches the leading number of a cell such as "12.5s" or "45%".
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Number coerces a raw cell to a float64. Absent, blank, non-numeric and
// non-finite values all yield 0.
func Number(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		return 0
	case string:
		m := numericPrefix.FindString(strings.ReplaceAll(strings.TrimSpace(x), ",", ""))
		if m == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(m, 64)
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

// Integer coerces a raw cell to an int, truncating any fraction toward zero.
func Integer(v any) int {
	return int(math.Trunc(Number(v)))
}

// Count is Integer clamped at zero, for tallies that cannot be negative.
func Count(v any) int {
	if n := Integer(v); n > 0 {
		return n
	}
	return 0
}

// Duration is Number clamped at zero, for elapsed or allotted seconds.
func Duration(v any) float64 {
	if f := Number(v); f > 0 {
		return f
	}
	return 0
}

// Correct reports whether a "Correct / Incorrect" cell reads "correct",
// ignoring case and surrounding space. Anything else is false.
func Correct(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s), "correct")
}

// Text renders a raw cell as trimmed text. Numbers print without a trailing
// ".0" so a numeric question number 3 becomes "3".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// Identity is Text with a placeholder for blank cells.
func Identity(v any, placeholder string) string {
	if s := Text(v); s != "" {
		return s
	}
	return placeholder
}

// blank reports whether a cell counts as missing for synonym resolution.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}
