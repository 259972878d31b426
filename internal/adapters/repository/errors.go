package repository

import "errors"

// Sentinel errors for profile sources.
var (
	ErrLoadProfiles = errors.New("load risk profiles failed")
	ErrBadModifier  = errors.New("malformed risk modifier")
)
