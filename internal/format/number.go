package format

import (
	"fmt"
	"math"

	"GraphAxis/internal/domain/data"
)

// NumberFormatter renders number values through a printf-style pattern.
// Integer verbs such as %d are allowed on these float-backed values: the
// value is rounded to the nearest integer first.
type NumberFormatter struct {
	pattern string
	integer bool
	maxLen  int
}

func NewNumberFormatter(pattern string) *NumberFormatter {
	f := &NumberFormatter{pattern: pattern, integer: hasIntegerVerb(pattern)}
	// Estimate typical output length from a wide sample value.
	f.maxLen = len(f.Format(data.NumberValue(-123456.789)))
	return f
}

func (f *NumberFormatter) Format(v data.Value) string {
	if f.integer {
		return fmt.Sprintf(f.pattern, int64(math.Round(v.Real())))
	}
	return fmt.Sprintf(f.pattern, v.Real())
}

func (f *NumberFormatter) MaxLength() int { return f.maxLen }

// hasIntegerVerb scans the pattern for a conversion whose verb needs an
// integer argument.
func hasIntegerVerb(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			continue
		}
		i++
		// Skip flags, width and precision.
		for i < len(pattern) {
			c := pattern[i]
			if c >= '0' && c <= '9' || c == '+' || c == '-' || c == ' ' || c == '#' || c == '.' {
				i++
				continue
			}
			break
		}
		if i >= len(pattern) {
			break
		}
		switch pattern[i] {
		case 'd', 'b', 'o', 'x', 'X', 'c':
			return true
		}
	}
	return false
}
