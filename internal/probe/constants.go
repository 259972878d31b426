package probe

import "time"

// Grid and runner defaults.
const (
	DefaultAmountStep = 100
	DefaultPeriodStep = 6
	DefaultTimeout    = 10 * time.Second

	// unknownApplicant is added to every grid; it must be refused as indebted.
	unknownApplicant = "00000000000"

	// maxKeptMismatches bounds the mismatch list kept for reporting.
	maxKeptMismatches = 100

	percentageMultiplier = 100
	directoryPermission  = 0750
	filePermission       = 0600
)
