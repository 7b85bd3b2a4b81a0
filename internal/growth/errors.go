package growth

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData occurs when fewer samples are supplied than the
	// requested model needs (minimum two for any fit)
	ErrInsufficientData = errors.New("not enough samples to fit a curve")

	// ErrInvalidDegree occurs when a non-positive polynomial degree is requested
	ErrInvalidDegree = errors.New("polynomial degree must be positive")

	// ErrMalformedSamples occurs when the measurement table cannot be parsed
	ErrMalformedSamples = errors.New("malformed measurement table")
)

// ParseError reports the exact line and field of a measurement table
// that failed to parse. Malformed rows abort the run; they are never
// skipped or coerced.
type ParseError struct {
	Line  int
	Field string
	Value string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sample on line %d: bad %s value %q: %v", e.Line, e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("sample on line %d: bad %s value %q", e.Line, e.Field, e.Value)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedSamples
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
