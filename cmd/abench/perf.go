package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kettleby/abench/compare"
	"github.com/kettleby/abench/config"
	"github.com/kettleby/abench/results"
	"github.com/kettleby/abench/sampler"
	"github.com/kettleby/abench/stats"
)

func newPerfCmd(logger *slog.Logger) *cobra.Command {
	var flags sharedFlags
	var warmup, measured, delayMs int

	cmd := &cobra.Command{
		Use:   "perf",
		Short: "Sample per-request latency on both targets and compare",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("warmup") {
				cfg.Sampling.WarmupCount = warmup
			}

			if cmd.Flags().Changed("requests") {
				cfg.Sampling.MeasuredCount = measured
			}

			if cmd.Flags().Changed("delay-ms") {
				cfg.Sampling.InterRequestDelayMs = delayMs
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runPerf(cmd.Context(), logger, cfg, flags.outputJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&warmup, "warmup", 50,
		"Warmup requests per scenario (discarded)")
	cmd.Flags().IntVar(&measured, "requests", 20,
		"Measured requests per scenario")
	cmd.Flags().IntVar(&delayMs, "delay-ms", 10,
		"Delay between measured requests in milliseconds")

	return cmd
}

func runPerf(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	outputJSON bool,
) error {
	if err := preflight(ctx, cfg); err != nil {
		return err
	}

	settle(ctx, logger, cfg.SettleDelay())

	s := sampler.New(sampler.Config{
		WarmupCount:       cfg.Sampling.WarmupCount,
		MeasuredCount:     cfg.Sampling.MeasuredCount,
		InterRequestDelay: cfg.InterRequestDelay(),
		RequestTimeout:    time.Duration(cfg.Sampling.RequestTimeoutSec) * time.Second,
	}, logger)

	// Target A runs to completion before target B starts, so ambient
	// noise is less likely to bias one side only.
	summariesA, err := sampleTarget(ctx, logger, s, cfg.TargetA, cfg.Scenarios)
	if err != nil {
		return err
	}

	summariesB, err := sampleTarget(ctx, logger, s, cfg.TargetB, cfg.Scenarios)
	if err != nil {
		return err
	}

	rec := compare.PerformanceRecord(
		cfg.TargetA.Name, cfg.TargetB.Name, summariesA, summariesB,
	)

	return emitAndPersist(logger, cfg, rec, outputJSON)
}

func sampleTarget(
	ctx context.Context,
	logger *slog.Logger,
	s *sampler.Sampler,
	target config.Target,
	scenarios []config.Scenario,
) (map[string]stats.Summary, error) {
	logger.Info("sampling target",
		slog.String("target", target.Name),
		slog.String("url", target.URL),
	)

	summaries := make(map[string]stats.Summary, len(scenarios))

	for _, scenario := range scenarios {
		url := target.URL + scenario.Path

		summary, err := s.Sample(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("sample %s %s: %w",
				target.Name, scenario.Name, err)
		}

		if summary.Failed {
			logger.Warn("scenario failed",
				slog.String("target", target.Name),
				slog.String("scenario", scenario.Name),
				slog.Int("errors", summary.ErrorCount),
			)
		} else {
			logger.Info("scenario sampled",
				slog.String("target", target.Name),
				slog.String("scenario", scenario.Name),
				slog.Float64("avg_ms", summary.Avg),
				slog.Float64("p95_ms", summary.P95),
				slog.Int("avg_size", summary.AvgSize),
			)
		}

		summaries[scenario.Name] = summary
	}

	return summaries, nil
}

// preflight verifies both targets respond before any measurement. A dead
// target aborts the whole run.
func preflight(ctx context.Context, cfg config.Config) error {
	for _, target := range []config.Target{cfg.TargetA, cfg.TargetB} {
		if err := sampler.Check(ctx, target.Name, target.URL); err != nil {
			return fmt.Errorf("pre-flight check failed: %w", err)
		}
	}

	return nil
}

func settle(ctx context.Context, logger *slog.Logger, delay time.Duration) {
	if delay <= 0 {
		return
	}

	logger.Info("letting targets settle", slog.Duration("delay", delay))

	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// emitAndPersist prints the comparison and then writes it to the results
// store. The report always reaches the console, even when persistence
// fails afterwards.
func emitAndPersist(
	logger *slog.Logger,
	cfg config.Config,
	rec compare.Record,
	outputJSON bool,
) error {
	if outputJSON {
		if err := compare.WriteJSON(os.Stdout, rec); err != nil {
			return err
		}
	} else {
		if err := compare.WriteReport(os.Stdout, rec); err != nil {
			return err
		}
	}

	store := results.NewStore(cfg.ResultsDir)

	path, err := store.Persist(rec)
	if err != nil {
		return fmt.Errorf("persist results: %w", err)
	}

	logger.Info("results saved", slog.String("path", path))

	return nil
}
