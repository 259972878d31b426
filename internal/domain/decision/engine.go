// Package decision implements the loan decision engine: bounds validation,
// credit scoring and the amount/period adjustment searches.
package decision

import (
	"context"
	"fmt"

	"github.com/okian/loandecision/internal/domain/model"
	"github.com/okian/loandecision/internal/domain/risk"
	"github.com/okian/loandecision/pkg/logger"
)

// Loan bounds, inclusive.
const (
	MinLoanAmount = 2000
	MaxLoanAmount = 10000
	MinLoanPeriod = 12
	MaxLoanPeriod = 60

	// AmountStep is the increment used while searching for an approvable sum.
	AmountStep = 100

	// approvalThreshold is the credit score a request must reach.
	approvalThreshold = 1.0
)

// Engine evaluates loan requests against an immutable risk table. It holds
// no mutable state and may be shared by any number of goroutines.
type Engine struct {
	profiles risk.Table
	logger   logger.Logger
}

// New creates an Engine over profiles.
func New(profiles risk.Table, opts ...Option) *Engine {
	e := &Engine{
		profiles: profiles,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Profiles returns the table the engine scores against.
func (e *Engine) Profiles() risk.Table {
	return e.profiles
}

// CreditScore is (modifier / amount) * period in floating point. A score of
// at least 1.0 is approvable.
func CreditScore(modifier, amount, period int) float64 {
	return float64(modifier) / float64(amount) * float64(period)
}

// Validate checks the request bounds. The amount is checked first.
func Validate(req model.LoanRequest) error {
	if req.Amount < MinLoanAmount || req.Amount > MaxLoanAmount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrAmountOutOfBounds, req.Amount, MinLoanAmount, MaxLoanAmount)
	}
	if req.Period < MinLoanPeriod || req.Period > MaxLoanPeriod {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrPeriodOutOfBounds, req.Period, MinLoanPeriod, MaxLoanPeriod)
	}
	return nil
}

// scoringState is the working data of a single evaluation.
type scoringState struct {
	modifier int
	amount   int
	period   int
	score    float64
}

// Evaluate returns the best approvable combination for req, or a negative
// decision. The only errors are ErrAmountOutOfBounds and ErrPeriodOutOfBounds.
func (e *Engine) Evaluate(ctx context.Context, req model.LoanRequest) (model.Decision, error) {
	if err := Validate(req); err != nil {
		e.logger.Warn(ctx, "loan request rejected", logger.Error(err))
		return model.Decision{}, err
	}

	modifier := e.profiles.Modifier(req.PersonalCode)
	if modifier == risk.DebtModifier {
		e.logger.Info(ctx, "negative decision, person has debt")
		return model.Deny(model.DescriptionDebt), nil
	}

	st := scoringState{
		modifier: modifier,
		amount:   req.Amount,
		period:   req.Period,
		score:    CreditScore(modifier, req.Amount, req.Period),
	}
	e.logger.Debug(ctx, "credit score computed", logger.Float64("score", st.score))

	approved := e.adjustAmount(ctx, &st)

	period := req.Period
	if approved < MinLoanAmount {
		e.logger.Debug(ctx, "no suitable amount within requested period")
		if p, ok := suitablePeriod(modifier, req.Amount, period); ok {
			e.logger.Debug(ctx, "requested amount fits a longer period",
				logger.Int("amount", req.Amount), logger.Int("period", p))
			period = p
			approved = req.Amount
		}
	}

	if approved < MinLoanAmount {
		e.logger.Info(ctx, "negative decision, no suitable amount within any period")
		return model.Deny(model.DescriptionNegative), nil
	}

	e.logger.Info(ctx, "positive decision",
		logger.Int("approvedAmount", approved), logger.Int("approvedPeriod", period))
	return model.Approve(approved, period), nil
}

// adjustAmount walks the amount in AmountStep increments towards a score of
// 1.0 at the requested period and returns the largest approvable sum. The
// walk stops on the first step that crosses the threshold or hits a bound,
// so the last step may overshoot; the result is clamped by min(score, 1).
func (e *Engine) adjustAmount(ctx context.Context, st *scoringState) int {
	switch {
	case st.score > approvalThreshold:
		e.logger.Debug(ctx, "a larger sum could be approved")
		for st.score > approvalThreshold && st.amount < MaxLoanAmount {
			st.amount += AmountStep
			st.score = CreditScore(st.modifier, st.amount, st.period)
		}
	case st.score < approvalThreshold:
		e.logger.Debug(ctx, "requested sum could not be approved")
		for st.score < approvalThreshold && st.amount > MinLoanAmount {
			st.amount -= AmountStep
			st.score = CreditScore(st.modifier, st.amount, st.period)
		}
	}

	approved := int(min(st.score, approvalThreshold) * float64(st.amount))
	e.logger.Debug(ctx, "largest sum to approve", logger.Int("amount", approved))
	return approved
}

// suitablePeriod returns the shortest period in [from, MaxLoanPeriod) at
// which amount scores at least 1.0.
func suitablePeriod(modifier, amount, from int) (int, bool) {
	for p := from; p < MaxLoanPeriod; p++ {
		if CreditScore(modifier, amount, p) >= approvalThreshold {
			return p, true
		}
	}
	return 0, false
}
