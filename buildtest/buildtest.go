// Package buildtest runs a target's production build command and inspects
// the produced artifacts.
package buildtest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Spec describes one target's build.
type Spec struct {
	Name        string
	Command     string
	Workdir     string
	ArtifactDir string
	// Extensions selects which artifact files count toward the bundle,
	// e.g. ".js", ".css".
	Extensions []string
	Timeout    time.Duration
}

// Result captures one build execution. BundleSizeBytes and ChunkCount are
// nil when the build failed or the artifact directory does not exist.
type Result struct {
	Success         bool    `json:"success"`
	DurationMs      float64 `json:"durationMs"`
	ExitCode        int     `json:"exitCode"`
	TimedOut        bool    `json:"timedOut,omitempty"`
	Stdout          string  `json:"stdout"`
	Stderr          string  `json:"stderr"`
	BundleSizeBytes *int64  `json:"bundleSizeBytes"`
	ChunkCount      *int    `json:"chunkCount"`
	WarningCount    int     `json:"warnings"`
	ErrorCount      int     `json:"errors"`
}

// Analyzer executes build commands sequentially, one target at a time.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze runs the build under a hard timeout and scans the artifact
// directory. A failing or timed-out build is reported in the Result, not
// as an error; errors are reserved for specs that cannot be executed at
// all (empty command).
func (a *Analyzer) Analyze(ctx context.Context, spec Spec) (Result, error) {
	parts := strings.Fields(spec.Command)
	if len(parts) == 0 {
		return Result{}, fmt.Errorf("build %s: empty command", spec.Name)
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	a.logger.Info("building target",
		slog.String("target", spec.Name),
		slog.String("command", spec.Command),
		slog.String("workdir", spec.Workdir),
	)

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = spec.Workdir
	cmd.Env = append(os.Environ(), "NODE_ENV=production")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	durationMs := float64(time.Since(start)) / float64(time.Millisecond)

	result := Result{
		Success:    runErr == nil,
		DurationMs: durationMs,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}

	switch {
	case runErr == nil:
		result.ExitCode = 0

	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ExitCode = -1

	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	combined := result.Stdout + result.Stderr
	result.WarningCount, result.ErrorCount = countSeverities(combined)

	// The artifact directory is inspected regardless of exit code; a
	// partial build may still have produced measurable output.
	if size, count, ok := scanArtifacts(spec.ArtifactDir, spec.Extensions); ok {
		result.BundleSizeBytes = &size
		result.ChunkCount = &count
	}

	if result.Success {
		a.logger.Info("build succeeded",
			slog.String("target", spec.Name),
			slog.Float64("duration_ms", durationMs),
		)
	} else {
		a.logger.Warn("build failed",
			slog.String("target", spec.Name),
			slog.Int("exit_code", result.ExitCode),
			slog.Bool("timed_out", result.TimedOut),
		)
	}

	return result, nil
}

// countSeverities approximates build-log severity with case-insensitive
// substring counts. Deprecation notices are excluded from the warning
// total; this is a coarse heuristic, not a structured log parse.
func countSeverities(output string) (warnings, errs int) {
	lower := strings.ToLower(output)

	deprecations := strings.Count(lower, "deprecationwarning") +
		strings.Count(lower, "[dep")

	warnings = strings.Count(lower, "warning") - deprecations
	if warnings < 0 {
		warnings = 0
	}

	errs = strings.Count(lower, "error")

	return warnings, errs
}

// scanArtifacts sums sizes and counts of matching files under dir. A
// missing directory reports ok=false so the caller records null bundle
// metrics. Access errors during the walk skip the affected entries; the
// scan never fails outright.
func scanArtifacts(dir string, extensions []string) (size int64, count int, ok bool) {
	if dir == "" {
		return 0, 0, false
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return 0, 0, false
	}

	match := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		match[strings.ToLower(ext)] = true
	}

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}

		if !match[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		size += info.Size()
		count++

		return nil
	})

	return size, count, true
}
