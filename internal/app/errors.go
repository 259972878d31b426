package service

import "errors"

// ErrNotStarted is returned by Decide before Start has loaded the risk table.
var ErrNotStarted = errors.New("decision service not started")
