package builder

import (
	"errors"
	"fmt"
)

// Error kinds raised while a grid or geometry is being constructed. All of
// them are fatal for a sweep and are detected before the first measurement.
var (
	// ErrMissingDimension reports a required or referenced dimension that was never declared
	ErrMissingDimension = errors.New("missing dimension")
	// ErrInvalidValue reports a candidate value outside a dimension's legal set
	ErrInvalidValue = errors.New("invalid value")
	// ErrGeometryMismatch reports inconsistent global/local extents or rule lengths
	ErrGeometryMismatch = errors.New("geometry mismatch")
)

func missingDimension(family, name string) error {
	if family == "" {
		return fmt.Errorf("%w: parameter '%s' has not been set", ErrMissingDimension, name)
	}
	return fmt.Errorf("%w: the %s parameter set for '%s' has not been set",
		ErrMissingDimension, family, name)
}

func invalidValue(name string, value int, reason string) error {
	return fmt.Errorf("%w: %s=%d: %s", ErrInvalidValue, name, value, reason)
}
