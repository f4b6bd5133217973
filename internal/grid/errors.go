package grid

import "errors"

// Failure classes surfaced by the grid and engine packages. Call sites
// wrap these with fmt.Errorf("...: %w", Err...) so errors.Is works
// across package boundaries.
var (
	// ErrParam marks a rejected scalar parameter: an even or
	// undersized window, negative smoothing, a filter order below 1.
	ErrParam = errors.New("invalid parameter")

	// ErrShape marks grid dimensions that cannot satisfy the request,
	// e.g. a sweep window that leaves no interior cells.
	ErrShape = errors.New("incompatible grid shape")

	// ErrDegenerate marks numerically degenerate input, e.g. a grid
	// with every cell masked so mean and median are undefined.
	ErrDegenerate = errors.New("degenerate grid data")
)
