package decision

import "errors"

// Validation error kinds. Both are detected before any scoring happens and
// are never worth retrying with the same input.
var (
	ErrAmountOutOfBounds = errors.New("loan amount out of bounds")
	ErrPeriodOutOfBounds = errors.New("loan period out of bounds")
)
