package validate

import "errors"

// Sentinel kinds for validation errors.
var (
	ErrOutOfDomain = errors.New("metric out of domain")
)
