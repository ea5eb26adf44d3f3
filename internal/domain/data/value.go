package data

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Kind identifies the closed set of value domains an axis can carry.
type Kind int

const (
	Number Kind = iota
	Datetime
)

func (k Kind) String() string {
	if k == Datetime {
		return "datetime"
	}
	return "number"
}

// ParseKind maps a configuration string to a Kind. Unrecognized strings
// default to Number.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), "datetime") {
		return Datetime
	}
	return Number
}

// Value is an ordered scalar plotted along one axis. Every value projects
// onto the real number line via Real; that projection determines plot
// position and ordering. Values are immutable: arithmetic returns new
// values. Implemented by exactly NumberValue and DatetimeValue.
type Value interface {
	Kind() Kind

	// Real returns the real-number projection used for plotting:
	// the stored value for numbers, milliseconds since the UTC epoch
	// for datetimes.
	Real() float64

	// Compare orders this value against other within the same kind and
	// returns ErrTypeMismatch across kinds.
	Compare(other Value) (int, error)

	// Add returns a new value of the same kind shifted by m, or
	// ErrTypeMismatch if m belongs to the other kind.
	Add(m Measure) (Value, error)

	// String is a full-precision debug form, not the display format.
	String() string
}

// FromReal reconstructs a Value of the given kind from its real projection.
func FromReal(kind Kind, real float64) Value {
	if kind == Datetime {
		return DatetimeValue(real)
	}
	return NumberValue(real)
}

// NumberValue is the Value implementation for the Number kind.
type NumberValue float64

func (v NumberValue) Kind() Kind    { return Number }
func (v NumberValue) Real() float64 { return float64(v) }

func (v NumberValue) Compare(other Value) (int, error) {
	o, ok := other.(NumberValue)
	if !ok {
		return 0, fmt.Errorf("compare number with %s: %w", other.Kind(), ErrTypeMismatch)
	}
	switch {
	case v < o:
		return -1, nil
	case v > o:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v NumberValue) Add(m Measure) (Value, error) {
	if m.Kind() != Number {
		return nil, fmt.Errorf("add %s measure to number: %w", m.Kind(), ErrTypeMismatch)
	}
	return NumberValue(float64(v) + m.Real()), nil
}

func (v NumberValue) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// DatetimeValue is the Value implementation for the Datetime kind: a moment
// in time in UTC with millisecond precision, stored as milliseconds since
// the epoch.
type DatetimeValue float64

func (v DatetimeValue) Kind() Kind    { return Datetime }
func (v DatetimeValue) Real() float64 { return float64(v) }

// Time returns the same moment as a time.Time in UTC.
func (v DatetimeValue) Time() time.Time {
	return time.UnixMilli(int64(v)).UTC()
}

func (v DatetimeValue) Compare(other Value) (int, error) {
	o, ok := other.(DatetimeValue)
	if !ok {
		return 0, fmt.Errorf("compare datetime with %s: %w", other.Kind(), ErrTypeMismatch)
	}
	switch {
	case v < o:
		return -1, nil
	case v > o:
		return 1, nil
	default:
		return 0, nil
	}
}

func (v DatetimeValue) Add(m Measure) (Value, error) {
	if m.Kind() != Datetime {
		return nil, fmt.Errorf("add %s measure to datetime: %w", m.Kind(), ErrTypeMismatch)
	}
	return DatetimeValue(float64(v) + m.Real()), nil
}

func (v DatetimeValue) String() string {
	t := v.Time()
	return t.Format("20060102150405") + "." + strconv.Itoa(t.Nanosecond()/1e8)
}

// datetimeLayouts maps input lengths to the calendar-field layout used to
// parse them. Unrecognized lengths fall back to the full-precision layout.
var datetimeLayouts = map[int]string{
	4:  "2006",
	6:  "200601",
	8:  "20060102",
	10: "2006010215",
	12: "200601021504",
	14: "20060102150405",
	16: "20060102150405.0",
}

const datetimeFullLayout = "20060102150405.0"

// Parse converts a string to a Value of the requested kind.
//
// Number parsing is lenient: malformed input yields 0.0 rather than an
// error. Datetime parsing dispatches on the input length; a string that
// matches no layout yields (nil, false) so callers can represent an absent
// value without an error path.
func Parse(kind Kind, s string) (Value, bool) {
	s = strings.TrimSpace(s)
	switch kind {
	case Number:
		return NumberValue(cast.ToFloat64(s)), true
	case Datetime:
		layout, ok := datetimeLayouts[len(s)]
		if !ok {
			layout = datetimeFullLayout
		}
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			return nil, false
		}
		return DatetimeValue(float64(t.UnixMilli())), true
	}
	return nil, false
}
