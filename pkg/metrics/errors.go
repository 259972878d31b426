package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrNoRegistry = errors.New("metrics registry is not gatherable")
)
