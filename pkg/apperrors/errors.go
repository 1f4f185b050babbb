package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrValidation        = errors.New("validation failed")
	ErrEmptySelection    = errors.New("filters select no classes")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// DecodeError is returned when no (encoding, delimiter) combination yields a
// readable table from an imported file. Attempts records every combination
// tried, in order.
type DecodeError struct {
	Attempts []string
	Cause    error
}

func (e *DecodeError) Error() string {
	if len(e.Attempts) == 0 {
		return "could not decode file"
	}
	return fmt.Sprintf("could not decode file (tried %s)", strings.Join(e.Attempts, ", "))
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
