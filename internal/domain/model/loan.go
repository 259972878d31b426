// Package model contains domain models passed between layers.
package model

// LoanRequest is a validated-or-not ask for credit.
type LoanRequest struct {
	PersonalCode string // applicant identifier, opaque
	Amount       int    // requested sum in euros
	Period       int    // requested repayment period in months
}

// Decision is the outcome of evaluating a LoanRequest. A denied decision
// always carries zero amount and period.
type Decision struct {
	Approved       bool
	ApprovedAmount int
	ApprovedPeriod int
	Description    string
}

// Decision descriptions returned to callers.
const (
	DescriptionPositive = "Positive"
	DescriptionNegative = "Negative"
	DescriptionDebt     = "Negative, person has debt"
)

// Outcome classifies a decision for metrics and stats.
type Outcome string

// Decision outcomes.
const (
	OutcomeApproved Outcome = "approved"
	OutcomeDenied   Outcome = "denied"
	OutcomeDebt     Outcome = "debt"
)

// Outcome returns the outcome class of d.
func (d Decision) Outcome() Outcome {
	switch {
	case d.Approved:
		return OutcomeApproved
	case d.Description == DescriptionDebt:
		return OutcomeDebt
	default:
		return OutcomeDenied
	}
}

// Approve builds a positive decision.
func Approve(amount, period int) Decision {
	return Decision{Approved: true, ApprovedAmount: amount, ApprovedPeriod: period, Description: DescriptionPositive}
}

// Deny builds a negative decision with the given description.
func Deny(description string) Decision {
	return Decision{Description: description}
}
