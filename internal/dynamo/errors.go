package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors. Every failure in a run wraps exactly one of these.
var (
	// ErrInvalidParameter indicates a physical parameter outside its domain
	// (a non-positive pendulum length).
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidConfig indicates an unusable integration config
	// (non-positive time step or negative duration).
	ErrInvalidConfig = errors.New("dynamo: invalid integration config")

	// ErrEncodingFailure indicates the video encoder was unavailable or a
	// frame could not be written.
	ErrEncodingFailure = errors.New("dynamo: encoding failure")
)

// FieldError wraps a domain error with the offending field and value.
type FieldError struct {
	Field   string
	Value   float64
	Reason  string
	Wrapped error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s must be %s, got %g", e.Wrapped, e.Field, e.Reason, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Wrapped
}

func invalidParameter(field, reason string, v float64) error {
	return &FieldError{Field: field, Value: v, Reason: reason, Wrapped: ErrInvalidParameter}
}

func invalidConfig(field, reason string, v float64) error {
	return &FieldError{Field: field, Value: v, Reason: reason, Wrapped: ErrInvalidConfig}
}
