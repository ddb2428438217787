package app

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrValidation = errors.New("validation failed")
)
