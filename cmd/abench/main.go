// Package main provides the CLI entry point for abench, an A/B
// benchmarking tool for two HTTP-serving stacks.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kettleby/abench/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "abench",
		Short: "A/B benchmarking for two HTTP-serving stacks",
		Long: `Abench issues controlled request workloads against two HTTP targets
and compares the results: per-request latency sampling, sustained load
testing through an external generator, and build time plus bundle size
analysis. Every comparison is persisted as a timestamped JSON record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPerfCmd(logger))
	root.AddCommand(newLoadTestCmd(logger))
	root.AddCommand(newBuildTestCmd(logger))
	root.AddCommand(newLatestCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// sharedFlags covers the configuration surface common to every mode.
type sharedFlags struct {
	configPath string
	resultsDir string
	targetAURL string
	targetBURL string
	nameA      string
	nameB      string
	outputJSON bool
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "",
		"Path to a TOML configuration file")
	flags.StringVar(&f.resultsDir, "results-dir", "",
		"Directory for persisted comparison records")
	flags.StringVar(&f.targetAURL, "target-a", "",
		"Base URL of target A")
	flags.StringVar(&f.targetBURL, "target-b", "",
		"Base URL of target B")
	flags.StringVar(&f.nameA, "name-a", "",
		"Display name of target A")
	flags.StringVar(&f.nameB, "name-b", "",
		"Display name of target B")
	flags.BoolVar(&f.outputJSON, "json", false,
		"Print the comparison record as JSON instead of a table")
}

// load builds the run configuration: defaults, then the config file, then
// any flags set on the command line.
func (f *sharedFlags) load() (config.Config, error) {
	cfg := config.Default()

	if f.configPath != "" {
		var err error

		cfg, err = config.LoadFile(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if f.resultsDir != "" {
		cfg.ResultsDir = f.resultsDir
	}

	if f.targetAURL != "" {
		cfg.TargetA.URL = f.targetAURL
	}

	if f.targetBURL != "" {
		cfg.TargetB.URL = f.targetBURL
	}

	if f.nameA != "" {
		cfg.TargetA.Name = f.nameA
	}

	if f.nameB != "" {
		cfg.TargetB.Name = f.nameB
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
