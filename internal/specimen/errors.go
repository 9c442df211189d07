package specimen

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("specimen: invalid input")

// ErrStageNotReady is returned when an operation is invoked on a stage whose
// prerequisite data has not been computed.
var ErrStageNotReady = fmt.Errorf("specimen: %w", errStageNotReady)
var errStageNotReady = errors.New("stage not ready")

// ErrFeatureNotFound is returned when a search-based extraction (offset
// yield, linear limit) finds no qualifying sample.
var ErrFeatureNotFound = fmt.Errorf("specimen: %w", errFeatureNotFound)
var errFeatureNotFound = errors.New("feature not found")

// ValidationError reports an invalid parameter or a violated array
// invariant.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "specimen: " + e.Msg
	}
	return fmt.Sprintf("specimen: %s: %s", e.Field, e.Msg)
}

// Unwrap lets callers match any validation failure with ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func notReady(what string) error {
	return fmt.Errorf("%w: %s", ErrStageNotReady, what)
}

func notFound(feature string) error {
	return fmt.Errorf("%s: %w", feature, ErrFeatureNotFound)
}
