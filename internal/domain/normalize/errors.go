package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrEmptySet = errors.New("empty record set")
)
