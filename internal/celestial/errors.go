package celestial

import (
	"errors"
	"fmt"
)

// Domain errors for body construction, edits and derived quantities.
var (
	// ErrInvalidParameter indicates a constructor or setter argument outside its domain.
	ErrInvalidParameter = errors.New("celestial: invalid parameter")

	// ErrOutOfDomain indicates a derived-quantity formula evaluated outside its valid range.
	ErrOutOfDomain = errors.New("celestial: argument outside formula domain")

	// ErrDegenerateState indicates two bodies at zero separation.
	ErrDegenerateState = errors.New("celestial: degenerate state (coincident bodies)")

	// ErrDuplicateName indicates a body name already present in the system.
	ErrDuplicateName = errors.New("celestial: duplicate body name")

	// ErrUnknownBody indicates a lookup for a name the system does not hold.
	ErrUnknownBody = errors.New("celestial: unknown body")
)

// ParameterError wraps a domain error with the offending body and field.
type ParameterError struct {
	Body    string
	Field   string
	Value   float64
	Wrapped error
}

func (e *ParameterError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s=%g: %v", e.Body, e.Field, e.Value, e.Wrapped)
}

func (e *ParameterError) Unwrap() error {
	return e.Wrapped
}

func invalid(body, field string, value float64) error {
	return &ParameterError{Body: body, Field: field, Value: value, Wrapped: ErrInvalidParameter}
}
