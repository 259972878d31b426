package probe

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/loandecision/internal/domain/decision"
	"github.com/okian/loandecision/internal/domain/model"
	"github.com/okian/loandecision/internal/domain/risk"
)

// GenerateCases builds the request grid for every applicant in table plus
// one unknown applicant, and computes each expected answer with a local
// engine over the same table.
func GenerateCases(ctx context.Context, table risk.Table, cfg *Config) []Case {
	amountStep := positiveOr(cfg.AmountStep, DefaultAmountStep)
	periodStep := positiveOr(cfg.PeriodStep, DefaultPeriodStep)
	engine := decision.New(table)

	codes := make([]string, 0, table.Len()+1)
	for _, p := range table.Profiles() {
		codes = append(codes, p.PersonalCode)
	}
	codes = append(codes, unknownApplicant)

	var cases []Case
	add := func(code string, amount, period int) {
		cases = append(cases, Case{
			RequestID:    uuid.NewString(),
			PersonalCode: code,
			Amount:       amount,
			Period:       period,
			Expected:     expect(ctx, engine, code, amount, period),
		})
	}

	for _, code := range codes {
		for amount := decision.MinLoanAmount; amount <= decision.MaxLoanAmount; amount += amountStep {
			for period := decision.MinLoanPeriod; period <= decision.MaxLoanPeriod; period += periodStep {
				add(code, amount, period)
			}
		}
		if cfg.IncludeInvalid {
			add(code, decision.MinLoanAmount-1, decision.MinLoanPeriod)
			add(code, decision.MaxLoanAmount+1, decision.MinLoanPeriod)
			add(code, decision.MinLoanAmount, decision.MinLoanPeriod-1)
			add(code, decision.MinLoanAmount, decision.MaxLoanPeriod+1)
		}
	}
	return cases
}

// expect evaluates a request locally and converts it to the wire reply.
func expect(ctx context.Context, engine *decision.Engine, code string, amount, period int) Reply {
	d, err := engine.Evaluate(ctx, model.LoanRequest{PersonalCode: code, Amount: amount, Period: period})
	if err != nil {
		return Reply{Status: http.StatusBadRequest}
	}
	return Reply{Status: http.StatusOK, Decision: &DecisionBody{
		IsApproved:          d.Approved,
		ApprovedAmount:      d.ApprovedAmount,
		ApprovedPeriod:      d.ApprovedPeriod,
		DecisionDescription: d.Description,
	}}
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
