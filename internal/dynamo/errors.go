package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for decay runs.
var (
	// ErrUnknownScheme indicates a scheme name outside the registered set.
	ErrUnknownScheme = errors.New("dynamo: unknown scheme")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrDegenerateStep indicates 1 + theta*a*dt == 0 in the recurrence.
	ErrDegenerateStep = errors.New("dynamo: degenerate step (1 + theta*a*dt == 0)")

	// ErrContextCanceled indicates a sweep was interrupted.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")

	// ErrNoData indicates a stored run without mesh points.
	ErrNoData = errors.New("dynamo: no mesh data")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step    int
	Time    float64
	Value   float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, u=%g): %v", e.Step, e.Time, e.Value, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// BoundsError reports which parameter failed validation.
func BoundsError(name string, value float64, want string) error {
	return fmt.Errorf("%w: %s=%g, want %s", ErrParameterBounds, name, value, want)
}
