package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount occurs when a non-positive record count is requested
	ErrInvalidCount = errors.New("record count must be positive")

	// ErrMalformedRecord occurs when a CSV row does not match the message schema
	ErrMalformedRecord = errors.New("malformed message record")
)

// RecordError reports the line of a generated file that failed to parse back.
type RecordError struct {
	Line  int
	Field string
	Cause error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record on line %d: bad %s field: %v", e.Line, e.Field, e.Cause)
}

func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
