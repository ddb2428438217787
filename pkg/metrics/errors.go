package metrics

import "errors"

// Sentinel kinds for metrics errors.
var (
	ErrGather = errors.New("gather metrics failed")
)
