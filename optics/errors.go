package optics

import "errors"

// Sentinel errors returned by grid, transform, element and pipeline operations.
// Callers should test for them with errors.Is; the returned errors carry context.
var (
	// ErrInvalidParameter is returned when a physical or sampling parameter is
	// out of range or not finite (n < 2, xMin >= xMax, D <= 0, k <= 0, ...).
	ErrInvalidParameter = errors.New("optics: invalid parameter")

	// ErrShapeMismatch is returned when a field is ragged, not square, or does not
	// match the n x n shape of the grid it is propagated on.
	ErrShapeMismatch = errors.New("optics: shape mismatch")
)
