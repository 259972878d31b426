package probe

import "errors"

// Sentinel errors for probe runs.
var (
	ErrUnhealthy = errors.New("service health check failed")
	ErrMismatch  = errors.New("service answers differ from the local engine")
	ErrNoCases   = errors.New("no cases generated")
)
