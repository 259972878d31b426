// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/loandecision/internal/adapters/repository"
	"github.com/okian/loandecision/internal/domain/decision"
	"github.com/okian/loandecision/internal/domain/model"
	"github.com/okian/loandecision/internal/domain/risk"
	"github.com/okian/loandecision/pkg/logger"
	"github.com/okian/loandecision/pkg/metrics"
)

// Validation kinds used as metric labels.
const (
	kindAmount = "amount"
	kindPeriod = "period"
)

// Service implements the API dependencies for the loan decision system.
type Service struct {
	mu sync.RWMutex

	// Core components
	source repository.ProfileSource
	engine *decision.Engine

	// State
	started bool

	// Counters since start
	total          atomic.Int64
	approved       atomic.Int64
	denied         atomic.Int64
	debt           atomic.Int64
	invalid        atomic.Int64
	periodExtended atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProfileSource sets where the risk table is loaded from on Start.
func WithProfileSource(src repository.ProfileSource) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithProfiles serves a fixed profile map instead of a backing store.
func WithProfiles(profiles map[string]int) Option {
	return func(s *Service) {
		s.source = repository.NewStaticSource(profiles)
	}
}

// New constructs a new Service with default configuration. Without a
// source option the built-in profile set is served.
func New(opts ...Option) *Service {
	s := &Service{
		source: repository.NewStaticSource(risk.Default()),
		logger: nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the risk table and builds the decision engine over it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting decision service...")

	table, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("start decision service: %w", err)
	}
	s.engine = decision.New(table, decision.WithLogger(s.logger.Named("engine")))
	metrics.UpdateRiskProfiles(table.Len())

	s.started = true
	s.logger.Info(ctx, "decision service started", logger.Int("profiles", table.Len()))

	return nil
}

// Stop releases the profile source. The engine itself holds no resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.source.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing profile source failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "decision service stopped")
}

// Decide evaluates req and records the outcome. Out-of-bounds requests
// return decision.ErrAmountOutOfBounds or decision.ErrPeriodOutOfBounds.
func (s *Service) Decide(ctx context.Context, req model.LoanRequest) (model.Decision, error) {
	s.mu.RLock()
	engine := s.engine
	started := s.started
	s.mu.RUnlock()

	if !started {
		return model.Decision{}, ErrNotStarted
	}

	begin := time.Now()
	d, err := engine.Evaluate(ctx, req)
	elapsed := float64(time.Since(begin).Microseconds()) / 1000
	metrics.RecordEvaluationLatency(elapsed)
	s.total.Add(1)

	if err != nil {
		s.invalid.Add(1)
		metrics.RecordValidationError(validationKind(err))
		return model.Decision{}, err
	}

	outcome := d.Outcome()
	metrics.RecordDecision(string(outcome))
	switch outcome {
	case model.OutcomeApproved:
		s.approved.Add(1)
		extended := d.ApprovedPeriod != req.Period
		if extended {
			s.periodExtended.Add(1)
		}
		metrics.RecordApproval(d.ApprovedAmount, d.ApprovedPeriod, extended)
	case model.OutcomeDebt:
		s.debt.Add(1)
	default:
		s.denied.Add(1)
	}

	return d, nil
}

func validationKind(err error) string {
	switch {
	case errors.Is(err, decision.ErrAmountOutOfBounds):
		return kindAmount
	case errors.Is(err, decision.ErrPeriodOutOfBounds):
		return kindPeriod
	default:
		return "unknown"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"total":          s.total.Load(),
		"approved":       s.approved.Load(),
		"denied":         s.denied.Load(),
		"debt":           s.debt.Load(),
		"invalid":        s.invalid.Load(),
		"periodExtended": s.periodExtended.Load(),
	}

	if s.started {
		stats["riskProfiles"] = s.engine.Profiles().Len()
	}

	return stats
}
