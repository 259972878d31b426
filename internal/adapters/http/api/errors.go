package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingParam = errors.New("missing required parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)
