package colony

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrShapeMismatch reports label map and intensity image dimensions that differ.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptyCandidateSet reports a statistic or mode evaluated over zero regions.
	ErrEmptyCandidateSet = errors.New("empty candidate set")

	// ErrInvalidConfig reports a configuration value outside its domain.
	ErrInvalidConfig = errors.New("invalid config")
)

// ShapeMismatchError carries the two dimensions that failed to match.
// It matches ErrShapeMismatch under errors.Is.
type ShapeMismatchError struct {
	Want image.Point // dimensions of the reference input (label map)
	Got  image.Point // dimensions of the compared input
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: want %dx%d, got %dx%d", e.Want.X, e.Want.Y, e.Got.X, e.Got.Y)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// CheckShape returns a *ShapeMismatchError when the two rectangles differ in size.
func CheckShape(want, got image.Rectangle) error {
	if want.Size() != got.Size() {
		return &ShapeMismatchError{Want: want.Size(), Got: got.Size()}
	}
	return nil
}
