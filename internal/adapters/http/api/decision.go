package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/loandecision/internal/domain/decision"
	"github.com/okian/loandecision/internal/domain/model"
	"github.com/okian/loandecision/pkg/logger"
)

// Query parameter names of the decision endpoint.
const (
	paramPersonalCode = "personalCode"
	paramLoanAmount   = "loanAmount"
	paramLoanPeriod   = "loanPeriod"
)

// decisionResponse is the JSON body of a successful decision.
type decisionResponse struct {
	IsApproved          bool   `json:"isApproved"`
	ApprovedAmount      int    `json:"approvedAmount"`
	ApprovedPeriod      int    `json:"approvedPeriod"`
	DecisionDescription string `json:"decisionDescription"`
}

// DecisionHandler handles loan decision requests.
type DecisionHandler struct {
	decider Decider
	logger  logger.Logger
}

// NewDecisionHandler creates a new decision handler.
func NewDecisionHandler(decider Decider, l logger.Logger) *DecisionHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &DecisionHandler{decider: decider, logger: l}
}

// HandleDecision handles GET /api/loan/decision requests. Bad input of any
// kind is answered with 400 and an empty body.
func (h *DecisionHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, OPTIONS")
		writeEmpty(w, http.StatusMethodNotAllowed)
		return
	}

	req, err := parseLoanRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn(ctx, "malformed loan request",
			logger.String("requestId", RequestIDFromContext(ctx)), logger.Error(err))
		writeEmpty(w, http.StatusBadRequest)
		return
	}

	h.logger.Info(ctx, "[REQUEST] loan decision requested",
		logger.String("requestId", RequestIDFromContext(ctx)),
		logger.String("personalCode", req.PersonalCode),
		logger.Int("loanAmount", req.Amount),
		logger.Int("loanPeriod", req.Period),
	)

	d, err := h.decider.Decide(ctx, req)
	switch {
	case errors.Is(err, decision.ErrAmountOutOfBounds), errors.Is(err, decision.ErrPeriodOutOfBounds):
		writeEmpty(w, http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error(ctx, "loan decision failed", logger.Error(err))
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, decisionResponse{
		IsApproved:          d.Approved,
		ApprovedAmount:      d.ApprovedAmount,
		ApprovedPeriod:      d.ApprovedPeriod,
		DecisionDescription: d.Description,
	})
}

// parseLoanRequest binds the three required query parameters.
func parseLoanRequest(q url.Values) (model.LoanRequest, error) {
	if !q.Has(paramPersonalCode) {
		return model.LoanRequest{}, fmt.Errorf("%w: %s", ErrMissingParam, paramPersonalCode)
	}
	amount, err := intParam(q, paramLoanAmount)
	if err != nil {
		return model.LoanRequest{}, err
	}
	period, err := intParam(q, paramLoanPeriod)
	if err != nil {
		return model.LoanRequest{}, err
	}
	return model.LoanRequest{
		PersonalCode: q.Get(paramPersonalCode),
		Amount:       amount,
		Period:       period,
	}, nil
}

func intParam(q url.Values, name string) (int, error) {
	if !q.Has(name) {
		return 0, fmt.Errorf("%w: %s", ErrMissingParam, name)
	}
	raw := q.Get(name)
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidParam, name, raw)
	}
	return int(v), nil
}
