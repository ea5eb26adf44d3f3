package data

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when values or measures of different
	// kinds are mixed in comparison or arithmetic.
	ErrTypeMismatch = errors.New("data: type mismatch")

	// ErrInvalidMeasure is returned when a zero or degenerate spacing is
	// used in a tick-alignment computation.
	ErrInvalidMeasure = errors.New("data: invalid measure")

	// ErrColumnNotFound is returned when a column id does not resolve
	// against a schema.
	ErrColumnNotFound = errors.New("data: column not found")
)

// ConfigurationError reports an unusable schema or query configuration,
// such as duplicate column ids or an unresolved column reference. It is
// fatal: construction or the query itself fails fast.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("data: configuration: %s", e.Reason)
}
