package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/kettleby/abench/buildtest"
	"github.com/kettleby/abench/compare"
	"github.com/kettleby/abench/config"
)

func newBuildTestCmd(logger *slog.Logger) *cobra.Command {
	var flags sharedFlags
	var timeout int

	cmd := &cobra.Command{
		Use:   "buildtest",
		Short: "Run both targets' production builds and compare",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("timeout") {
				cfg.Build.TimeoutSec = timeout
			}

			return runBuildTest(cmd.Context(), logger, cfg, flags.outputJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&timeout, "timeout", 600,
		"Hard build timeout per target in seconds")

	return cmd
}

func runBuildTest(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.Config,
	outputJSON bool,
) error {
	analyzer := buildtest.NewAnalyzer(logger)
	timeout := time.Duration(cfg.Build.TimeoutSec) * time.Second

	buildSpec := func(target config.Target, bt config.BuildTarget) buildtest.Spec {
		return buildtest.Spec{
			Name:        target.Name,
			Command:     bt.Command,
			Workdir:     bt.Workdir,
			ArtifactDir: bt.ArtifactDir,
			Extensions:  bt.Extensions,
			Timeout:     timeout,
		}
	}

	// A failed build on one target still leaves the other's analysis
	// intact; the record captures both outcomes.
	resultA, err := analyzer.Analyze(ctx, buildSpec(cfg.TargetA, cfg.Build.A))
	if err != nil {
		return err
	}

	resultB, err := analyzer.Analyze(ctx, buildSpec(cfg.TargetB, cfg.Build.B))
	if err != nil {
		return err
	}

	rec := compare.BuildRecord(
		cfg.TargetA.Name, cfg.TargetB.Name, resultA, resultB,
	)

	return emitAndPersist(logger, cfg, rec, outputJSON)
}
