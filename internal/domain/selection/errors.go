package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	ErrEmptyInput = errors.New("no records to select from")
)
