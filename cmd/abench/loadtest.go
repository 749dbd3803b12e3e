package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kettleby/abench/compare"
	"github.com/kettleby/abench/config"
	"github.com/kettleby/abench/loadgen"
)

func newLoadTestCmd(logger *slog.Logger) *cobra.Command {
	var flags sharedFlags
	var duration, connections, pipelining, timeout int

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Flood both targets through the load generator and compare",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("duration") {
				cfg.Load.DurationSec = duration
			}

			if cmd.Flags().Changed("connections") {
				cfg.Load.Connections = connections
			}

			if cmd.Flags().Changed("pipelining") {
				cfg.Load.Pipelining = pipelining
			}

			if cmd.Flags().Changed("timeout") {
				cfg.Load.TimeoutSec = timeout
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			gen := loadgen.NewOhaGenerator(logger)

			return runLoadTest(cmd.Context(), logger, cfg, gen, flags.outputJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&duration, "duration", 30,
		"Load test duration per target in seconds")
	cmd.Flags().IntVar(&connections, "connections", 50,
		"Concurrent connections")
	cmd.Flags().IntVar(&pipelining, "pipelining", 1,
		"HTTP pipelining factor")
	cmd.Flags().IntVar(&timeout, "timeout", 10,
		"Per-request timeout in seconds")

	return cmd
}

func runLoadTest(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	gen loadgen.Generator,
	outputJSON bool,
) error {
	if err := gen.Check(ctx); err != nil {
		return err
	}

	if err := preflight(ctx, cfg); err != nil {
		return err
	}

	settle(ctx, logger, cfg.SettleDelay())

	runner := loadgen.NewRunner(gen, logger)

	genCfg := func(target config.Target) loadgen.Config {
		return loadgen.Config{
			URL:            target.URL,
			Duration:       time.Duration(cfg.Load.DurationSec) * time.Second,
			Connections:    cfg.Load.Connections,
			Pipelining:     cfg.Load.Pipelining,
			RequestTimeout: time.Duration(cfg.Load.TimeoutSec) * time.Second,
		}
	}

	resultA, err := runner.Run(ctx, cfg.TargetA.Name, genCfg(cfg.TargetA))
	if err != nil {
		return err
	}

	// Pause so target A's flood has fully drained before B starts.
	settle(ctx, logger, cfg.SettleDelay())

	resultB, err := runner.Run(ctx, cfg.TargetB.Name, genCfg(cfg.TargetB))
	if err != nil {
		return err
	}

	rec := compare.LoadTestRecord(
		cfg.TargetA.Name, cfg.TargetB.Name, resultA, resultB,
	)

	return emitAndPersist(logger, cfg, rec, outputJSON)
}
