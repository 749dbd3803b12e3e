package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// OhaGenerator drives the oha load generator as a subprocess and parses
// its JSON report from stdout.
type OhaGenerator struct {
	// Binary is the oha executable; defaults to "oha" on PATH.
	Binary string
	Logger *slog.Logger
}

// NewOhaGenerator creates an oha-backed Generator.
func NewOhaGenerator(logger *slog.Logger) *OhaGenerator {
	return &OhaGenerator{Binary: "oha", Logger: logger}
}

// Check verifies oha is installed and runnable.
func (g *OhaGenerator) Check(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, g.Binary, "--version").Output()
	if err != nil {
		return fmt.Errorf(
			"oha is not installed (install with: cargo install oha): %w", err,
		)
	}

	g.Logger.Info("load generator available",
		slog.String("version", strings.TrimSpace(string(out))))

	return nil
}

// Run execs one oha attack and decodes its report.
func (g *OhaGenerator) Run(ctx context.Context, cfg Config) (RawResult, error) {
	args := []string{
		cfg.URL,
		"-z", fmt.Sprintf("%ds", int(cfg.Duration.Seconds())),
		"-c", strconv.Itoa(cfg.Connections),
		"-t", fmt.Sprintf("%ds", int(cfg.RequestTimeout.Seconds())),
		"--no-tui",
		"--output-format", "json",
	}

	if cfg.Pipelining > 1 {
		args = append(args, "-p", strconv.Itoa(cfg.Pipelining))
	}

	cmd := exec.CommandContext(ctx, g.Binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return RawResult{}, fmt.Errorf(
			"oha failed: %w\nstderr: %s", err, stderr.String(),
		)
	}

	var raw RawResult
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return RawResult{}, fmt.Errorf("parse oha output: %w", err)
	}

	return raw, nil
}
