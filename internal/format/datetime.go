package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"GraphAxis/internal/domain/data"
)

// conversion describes one '%' conversion character: either a time layout
// or a custom function, plus the longest string it produces.
type conversion struct {
	layout string
	maxLen int
	fn     func(t time.Time) string
}

// conversions is the immutable table of supported conversion characters,
// built once at process start.
var conversions = map[byte]conversion{
	'd': {layout: "2", maxLen: 2},       // day, no leading zero
	'D': {layout: "02", maxLen: 2},      // day, leading zero
	'm': {layout: "1", maxLen: 2},       // month number, no leading zero
	'M': {layout: "01", maxLen: 2},      // month number, leading zero
	'Y': {layout: "2006", maxLen: 4},    // four digit year
	'y': {layout: "06", maxLen: 2},      // two digit year
	'W': {layout: "Monday", maxLen: 9},  // weekday name
	'w': {layout: "Mon", maxLen: 3},     // weekday abbrev
	'N': {layout: "January", maxLen: 9}, // month name
	'n': {layout: "Jan", maxLen: 3},     // month abbrev
	'H': {layout: "15", maxLen: 2},      // 24-hour
	'h': {layout: "3", maxLen: 2},       // 12-hour
	'i': {layout: "04", maxLen: 2},      // minutes
	's': {layout: "05", maxLen: 2},      // seconds
	'P': {layout: "PM", maxLen: 2},      // AM or PM
	'p': {layout: "pm", maxLen: 2},      // am or pm
	'v': {maxLen: 1, fn: func(t time.Time) string {
		return strconv.Itoa(t.Nanosecond() / 1e8) // deciseconds
	}},
	'V': {maxLen: 2, fn: func(t time.Time) string {
		return fmt.Sprintf("%02d", t.Nanosecond()/1e7) // centiseconds
	}},
	'q': {maxLen: 3, fn: func(t time.Time) string {
		return fmt.Sprintf("%03d", t.Nanosecond()/1e6) // milliseconds
	}},
	'L': {maxLen: 0, fn: func(time.Time) string { return "\n" }},
}

// DatetimeFormatter renders datetime values through a pattern of literal
// text and '%' conversions, always in UTC. An unrecognized conversion
// emits its bare character rather than failing.
type DatetimeFormatter struct {
	pattern string
	maxLen  int
}

func NewDatetimeFormatter(pattern string) *DatetimeFormatter {
	f := &DatetimeFormatter{pattern: pattern}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' || i+1 >= len(pattern) {
			f.maxLen++
			continue
		}
		i++
		if pattern[i] == '%' {
			f.maxLen++
		} else if c, ok := conversions[pattern[i]]; ok {
			f.maxLen += c.maxLen
		} else {
			f.maxLen++
		}
	}
	return f
}

func (f *DatetimeFormatter) Format(v data.Value) string {
	dv, ok := v.(data.DatetimeValue)
	if !ok {
		return v.String()
	}
	t := dv.Time()

	var b strings.Builder
	b.Grow(f.maxLen)
	for i := 0; i < len(f.pattern); i++ {
		ch := f.pattern[i]
		if ch != '%' || i+1 >= len(f.pattern) {
			b.WriteByte(ch)
			continue
		}
		i++
		next := f.pattern[i]
		if next == '%' {
			b.WriteByte('%')
			continue
		}
		c, ok := conversions[next]
		switch {
		case !ok:
			b.WriteByte(next)
		case c.fn != nil:
			b.WriteString(c.fn(t))
		default:
			b.WriteString(t.Format(c.layout))
		}
	}
	return b.String()
}

func (f *DatetimeFormatter) MaxLength() int { return f.maxLen }
