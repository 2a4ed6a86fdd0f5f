package models

import "errors"

var (
	// ErrMalformedGeometry is returned when mesh data cannot form a valid
	// mesh: an index out of range, an unparsable field, or an unsupported
	// directive. It is fatal to loading that mesh only.
	ErrMalformedGeometry = errors.New("models: malformed geometry")

	// ErrUnsupportedDirective marks an OBJ line whose leading token is not
	// understood. Errors carrying it also match ErrMalformedGeometry.
	ErrUnsupportedDirective = errors.New("models: unsupported directive")
)
