package tabular

import "errors"

// Sentinel kinds for table shape errors.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrBadCell       = errors.New("unparseable cell")
)
