// Package probe checks a running decision service against a local engine
// built from the same risk table.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/loandecision/internal/domain/risk"
	"github.com/okian/loandecision/pkg/logger"
)

// Run executes the complete probe and returns its statistics. A run in
// which any reply differs from the local engine fails with ErrMismatch.
func Run(ctx context.Context, cfg *Config, table risk.Table) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting decision probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("profiles", table.Len()),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Bool("includeInvalid", cfg.IncludeInvalid))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, err
	}

	// Step 2: Generate the grid
	cases := GenerateCases(ctx, table, cfg)
	stats.Generated = len(cases)
	if len(cases) == 0 {
		return stats, ErrNoCases
	}
	log.Info(ctx, "cases generated", logger.Int("cases", len(cases)))

	// Step 3: Submit concurrently and compare
	if err := submitCases(ctx, cfg, cases, stats); err != nil {
		return stats, fmt.Errorf("case submission failed: %w", err)
	}

	// Step 4: Save mismatches
	if cfg.OutputFile != "" {
		if err := saveMismatches(ctx, cfg.OutputFile, stats.Mismatches); err != nil {
			log.Warn(ctx, "failed to save mismatches", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Mismatched > 0 || stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d mismatched, %d failed", ErrMismatch, stats.Mismatched, stats.Failed)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	client := newHTTPClient(cfg.Timeout)
	resp, err := client.Get(ctx, cfg.BaseURL+"/healthz", "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 is healthy; the body is the Prometheus exposition.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMismatches writes the kept mismatches to filename as a JSON array.
func saveMismatches(ctx context.Context, filename string, mismatches []Case) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(mismatches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mismatches: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "mismatches saved to file",
		logger.String("filename", filename), logger.Int("count", len(mismatches)))
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var matchRate, requestsPerSecond float64

	if stats.Submitted > 0 {
		matchRate = float64(stats.Matched) / float64(stats.Submitted) * percentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("matched", stats.Matched),
		logger.Int("mismatched", stats.Mismatched),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("matchRate", matchRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
