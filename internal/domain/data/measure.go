package data

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Measure is a directed displacement along one axis. Adding a Measure to a
// Value of the same kind yields a new Value; the chart uses measures for
// tick spacing, bar widths and similar axis lengths. Implemented by exactly
// NumberMeasure and DatetimeMeasure.
type Measure interface {
	Kind() Kind

	// Real returns the length of this measure on the same scale as the
	// value projection of its kind (plain magnitude for numbers,
	// milliseconds for datetimes).
	Real() float64

	String() string
}

// NumberMeasure is a plain real-valued length along a number axis.
type NumberMeasure float64

func (m NumberMeasure) Kind() Kind    { return Number }
func (m NumberMeasure) Real() float64 { return float64(m) }
func (m NumberMeasure) String() string {
	return strconv.FormatFloat(float64(m), 'f', -1, 64)
}

// Unit is a calendar unit for datetime measures. Each unit carries a fixed
// millisecond length; Month (31 days) and Year (365 days) are deliberate
// approximations, never exact calendar arithmetic.
type Unit int

const (
	Millisecond Unit = iota
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitMillis = [...]int64{
	Millisecond: 1,
	Second:      1000,
	Minute:      1000 * 60,
	Hour:        1000 * 60 * 60,
	Day:         1000 * 60 * 60 * 24,
	Week:        1000 * 60 * 60 * 24 * 7,
	Month:       1000 * 60 * 60 * 24 * 31,
	Year:        1000 * 60 * 60 * 24 * 365,
}

var unitNames = [...]string{
	Millisecond: "ms",
	Second:      "s",
	Minute:      "m",
	Hour:        "H",
	Day:         "D",
	Week:        "W",
	Month:       "M",
	Year:        "Y",
}

// Millis returns the canonical millisecond length of one unit.
func (u Unit) Millis() int64 {
	if u < Millisecond || u > Year {
		return 0
	}
	return unitMillis[u]
}

func (u Unit) String() string {
	if u < Millisecond || u > Year {
		return "unknown"
	}
	return unitNames[u]
}

// ParseUnit resolves one of "ms", "s", "m", "H", "D", "W", "M", "Y".
// The single-letter units are case-sensitive ("m" is minute, "M" month).
func ParseUnit(s string) (Unit, bool) {
	for u, name := range unitNames {
		if s == name {
			return Unit(u), true
		}
	}
	return Millisecond, false
}

// DatetimeMeasure is a length along a datetime axis: a count of one
// calendar unit.
type DatetimeMeasure struct {
	count float64
	unit  Unit
}

// NewDatetimeMeasure builds a measure of count × unit.
func NewDatetimeMeasure(count float64, unit Unit) DatetimeMeasure {
	return DatetimeMeasure{count: count, unit: unit}
}

func (m DatetimeMeasure) Kind() Kind     { return Datetime }
func (m DatetimeMeasure) Count() float64 { return m.count }
func (m DatetimeMeasure) Unit() Unit     { return m.unit }

func (m DatetimeMeasure) Real() float64 {
	return m.count * float64(m.unit.Millis())
}

func (m DatetimeMeasure) String() string {
	return strconv.FormatFloat(m.count, 'f', -1, 64) + m.unit.String()
}

// NewMeasure builds a measure of the given kind. The unit is ignored for
// number measures.
func NewMeasure(kind Kind, count float64, unit Unit) Measure {
	if kind == Datetime {
		return NewDatetimeMeasure(count, unit)
	}
	return NumberMeasure(count)
}

// ParseMeasure parses a measure string for the given kind. Number measures
// are a bare float. Datetime measures are a float followed by a unit
// suffix, e.g. "15m" or "1M"; a bare float means milliseconds.
func ParseMeasure(kind Kind, s string) (Measure, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if kind == Number {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return NumberMeasure(f), true
	}

	cut := len(s)
	for cut > 0 && !isDigit(s[cut-1]) {
		cut--
	}
	unit := Millisecond
	if cut < len(s) {
		u, ok := ParseUnit(s[cut:])
		if !ok {
			return nil, false
		}
		unit = u
	}
	count, err := strconv.ParseFloat(s[:cut], 64)
	if err != nil {
		return nil, false
	}
	return NewDatetimeMeasure(count, unit), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' || c == '.' }

// scale returns a measure k times as long as m, preserving its kind and unit.
func scale(m Measure, k float64) Measure {
	switch mm := m.(type) {
	case DatetimeMeasure:
		return DatetimeMeasure{count: mm.count * k, unit: mm.unit}
	default:
		return NumberMeasure(m.Real() * k)
	}
}

// FirstSpacingLocationAtOrAfter returns the location of the first tick at or
// after value, in a grid of ticks spaced by m and anchored at alignment:
//
//	alignment + k*m
//
// for the smallest integer k (possibly negative) such that the result is
// >= value. The result is materialized with typed addition so repeated
// datetime ticks stay exact multiples instead of drifting through floating
// error. A measure whose real length is not strictly positive cannot anchor
// a grid and yields ErrInvalidMeasure.
func FirstSpacingLocationAtOrAfter(m Measure, value, alignment Value) (Value, error) {
	if m.Real() <= 0 {
		return nil, fmt.Errorf("spacing %s: %w", m, ErrInvalidMeasure)
	}
	if value.Kind() != alignment.Kind() || value.Kind() != m.Kind() {
		return nil, fmt.Errorf("spacing over mixed kinds: %w", ErrTypeMismatch)
	}

	k := math.Ceil((value.Real() - alignment.Real()) / m.Real())
	loc, err := alignment.Add(scale(m, k))
	if err != nil {
		return nil, err
	}
	// The quotient can round down across an exact-multiple boundary at
	// large magnitudes; one corrective step restores the invariant.
	if c, _ := loc.Compare(value); c < 0 {
		loc, err = loc.Add(m)
		if err != nil {
			return nil, err
		}
	}
	return loc, nil
}
