// Package format renders axis values for display. The data layer never
// formats anything itself; labelers and handlers hand values to a Formatter.
package format

import "GraphAxis/internal/domain/data"

// Formatter converts values to display strings.
type Formatter interface {
	Format(v data.Value) string

	// MaxLength is an upper bound on the length of strings this
	// formatter typically produces, used to estimate label density.
	MaxLength() int
}

// New returns a formatter appropriate for the kind. An empty pattern gets a
// sensible default per kind.
func New(kind data.Kind, pattern string) Formatter {
	if kind == data.Datetime {
		if pattern == "" {
			pattern = "%Y-%M-%D"
		}
		return NewDatetimeFormatter(pattern)
	}
	if pattern == "" {
		pattern = "%g"
	}
	return NewNumberFormatter(pattern)
}
