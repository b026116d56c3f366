package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for entity construction and stepping.
var (
	// ErrInvalidMass indicates a disc or bob constructed with non-positive mass,
	// or a celestial body with negative mass.
	ErrInvalidMass = errors.New("dynamo: invalid mass")

	// ErrInvalidRadius indicates a negative radius.
	ErrInvalidRadius = errors.New("dynamo: radius must be non-negative")

	// ErrInvalidLength indicates a non-positive pendulum link length.
	ErrInvalidLength = errors.New("dynamo: length must be positive")

	// ErrInvalidBoundary indicates a boundary whose max does not exceed its min.
	ErrInvalidBoundary = errors.New("dynamo: boundary max must exceed min on both axes")

	// ErrUnstable indicates the simulation produced NaN or Inf.
	ErrUnstable = errors.New("dynamo: simulation unstable (NaN or Inf detected)")
)

// ValidationError reports which field of which entity failed validation.
type ValidationError struct {
	Entity  string
	Field   string
	Value   float64
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s=%g: %v", e.Entity, e.Field, e.Value, e.Wrapped)
}

func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// SimError wraps a stepping failure with the step and time it happened at.
type SimError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
