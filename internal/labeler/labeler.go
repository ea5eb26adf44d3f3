// Package labeler chooses tick positions along an axis and prepares their
// labels. A Labeler is bound to one axis and one spacing; the sequence of
// tick values between a min and max is lazy, forward-only, and restarted by
// calling Prepare again.
package labeler

import (
	"strconv"
	"strings"

	"GraphAxis/internal/domain/data"
	"GraphAxis/internal/format"
)

// Point is a 2-d position used for label placement.
type Point struct {
	X, Y float64
}

// ParsePoint reads a pair of floats separated by a comma or whitespace.
// Malformed coordinates become 0.
func ParsePoint(s string) Point {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	var p Point
	if len(fields) > 0 {
		p.X, _ = strconv.ParseFloat(fields[0], 64)
	}
	if len(fields) > 1 {
		p.Y, _ = strconv.ParseFloat(fields[1], 64)
	}
	return p
}

// Axis describes the value range and screen length of one plotted axis.
type Axis struct {
	Min, Max data.Value
	LengthPx float64
}

// Label is one formatted tick, positioned for a rendering backend. The
// backend itself is out of scope here.
type Label struct {
	Value        data.Value
	Text         string
	AxisOffsetPx float64
	Position     Point
	Angle        float64
	Anchor       Point
}

// nominal pixel width of one rendered label character, used only to
// estimate density.
const charWidthPx = 7.0

// Labeler steps through regularly spaced tick values on one axis.
type Labeler struct {
	axis      Axis
	spacing   data.Measure
	alignment data.Value
	formatter format.Formatter
	position  Point
	angle     float64
	anchor    Point

	cursor   data.Value
	limit    data.Value
	prepared bool
}

// New binds a labeler to an axis, a tick spacing and an alignment anchor.
func New(axis Axis, spacing data.Measure, alignment data.Value, f format.Formatter, position Point, angle float64, anchor Point) *Labeler {
	return &Labeler{
		axis:      axis,
		spacing:   spacing,
		alignment: alignment,
		formatter: f,
		position:  position,
		angle:     angle,
		anchor:    anchor,
	}
}

// LabelDensity estimates how crowded this labeler's output would be: the
// typical label length divided by the pixel distance between ticks. Near 0
// is sparse, 1.0 means labels touch, above 1.0 they overlap.
func (l *Labeler) LabelDensity() float64 {
	axisRange := l.axis.Max.Real() - l.axis.Min.Real()
	if axisRange <= 0 || l.axis.LengthPx <= 0 || l.spacing.Real() <= 0 {
		return 0
	}
	tickPx := l.spacing.Real() / axisRange * l.axis.LengthPx
	return float64(l.formatter.MaxLength()) * charWidthPx / tickPx
}

// Prepare resets the cursor to the first tick at or after min. Until called
// (and after the sequence is exhausted) the labeler yields nothing.
func (l *Labeler) Prepare(min, max data.Value) error {
	l.prepared = false
	first, err := data.FirstSpacingLocationAtOrAfter(l.spacing, min, l.alignment)
	if err != nil {
		return err
	}
	l.cursor = first
	l.limit = max
	l.prepared = true
	return nil
}

// HasNext reports whether another tick value remains at or before max.
func (l *Labeler) HasNext() bool {
	if !l.prepared || l.cursor == nil {
		return false
	}
	c, err := l.cursor.Compare(l.limit)
	return err == nil && c <= 0
}

// PeekNext returns the next tick value without advancing, or nil when the
// sequence is exhausted.
func (l *Labeler) PeekNext() data.Value {
	if !l.HasNext() {
		return nil
	}
	return l.cursor
}

// Next returns the next tick value and advances the cursor.
func (l *Labeler) Next() data.Value {
	if !l.HasNext() {
		return nil
	}
	v := l.cursor
	next, err := l.cursor.Add(l.spacing)
	if err != nil {
		l.prepared = false
		return v
	}
	l.cursor = next
	return v
}

// RenderLabel formats a value this labeler produced and attaches the stored
// placement, plus the value's pixel offset along the axis.
func (l *Labeler) RenderLabel(v data.Value) Label {
	var offset float64
	if axisRange := l.axis.Max.Real() - l.axis.Min.Real(); axisRange > 0 {
		offset = (v.Real() - l.axis.Min.Real()) / axisRange * l.axis.LengthPx
	}
	return Label{
		Value:        v,
		Text:         l.formatter.Format(v),
		AxisOffsetPx: offset,
		Position:     l.position,
		Angle:        l.angle,
		Anchor:       l.anchor,
	}
}
