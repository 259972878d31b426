package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/loandecision/internal/adapters/repository"
	"github.com/okian/loandecision/internal/domain/risk"
	"github.com/okian/loandecision/internal/probe"
	"github.com/okian/loandecision/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultProbeTimeout = 10 * time.Minute
)

type options struct {
	cfg          probe.Config
	profiles     string
	redisURL     string
	redisKey     string
	logFormat    string
	probeTimeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "decision-probe",
		Short: "Check a running loan decision service against a local engine",
		Long: `decision-probe sends a grid of loan requests for every applicant in the
risk table to a running service, and compares each answer with a decision
engine built locally from the same table.

The table comes from --redis-url when set, otherwise from --profiles, and
falls back to the built-in profiles.`,
		Example: `  decision-probe --url http://localhost:8080
  decision-probe --profiles 49002010976=100,49002010987=300 --invalid
  decision-probe --redis-url redis://localhost:6379/0 --output mismatches.json`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cfg.BaseURL, "url", "http://localhost:8080", "Base URL of the service")
	f.IntVar(&opts.cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
	f.DurationVar(&opts.cfg.Timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	f.IntVar(&opts.cfg.AmountStep, "amount-step", probe.DefaultAmountStep, "Amount increment of the request grid")
	f.IntVar(&opts.cfg.PeriodStep, "period-step", probe.DefaultPeriodStep, "Period increment of the request grid")
	f.BoolVar(&opts.cfg.IncludeInvalid, "invalid", false, "Also send out-of-bounds requests")
	f.StringVar(&opts.cfg.OutputFile, "output", "", "Write mismatches to this JSON file")
	f.BoolVarP(&opts.cfg.Verbose, "verbose", "v", false, "Log every mismatch")
	f.StringVar(&opts.profiles, "profiles", "", "Risk table as code=modifier pairs, comma separated")
	f.StringVar(&opts.redisURL, "redis-url", "", "Load the risk table from this Redis server")
	f.StringVar(&opts.redisKey, "redis-key", "loan:risk_profiles", "Redis hash holding the risk table")
	f.StringVar(&opts.logFormat, "log-format", logger.FormatText, "Log format: text or json")
	f.DurationVar(&opts.probeTimeout, "probe-timeout", defaultProbeTimeout, "Overall time limit")
	cmd.MarkFlagsMutuallyExclusive("profiles", "redis-url")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	if err := logger.Init(logger.WithFormat(opts.logFormat)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.probeTimeout)
	defer cancel()

	table, err := loadTable(ctx, opts)
	if err != nil {
		return err
	}

	_, err = probe.Run(ctx, &opts.cfg, table)
	return err
}

// loadTable resolves the table the local engine scores against.
func loadTable(ctx context.Context, opts *options) (risk.Table, error) {
	var source repository.ProfileSource
	switch {
	case opts.redisURL != "":
		rs, err := repository.NewRedisSource(opts.redisURL,
			repository.WithKey(opts.redisKey),
			repository.WithLogger(logger.Named("redis")),
		)
		if err != nil {
			return risk.Table{}, err
		}
		defer func() { _ = rs.Close() }()
		source = rs
	case opts.profiles != "":
		profiles, err := probe.ParseProfiles(opts.profiles)
		if err != nil {
			return risk.Table{}, fmt.Errorf("--profiles: %w", err)
		}
		source = repository.NewStaticSource(profiles)
	default:
		source = repository.NewStaticSource(risk.Default())
	}
	return source.Load(ctx)
}
