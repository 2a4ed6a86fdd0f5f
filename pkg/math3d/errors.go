package math3d

import "errors"

var (
	// ErrSingularTransform is returned by matrix factories whose inputs do not
	// describe a valid transform: a zero rotation axis, a degenerate frustum,
	// or a look-at with coincident eye and target.
	ErrSingularTransform = errors.New("math3d: singular transform")

	// ErrZeroLength is returned when normalizing a vector with no magnitude.
	ErrZeroLength = errors.New("math3d: zero-length vector")
)
