package loadgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Runner executes one load test per target through a Generator and maps
// the raw report into a Result.
type Runner struct {
	gen    Generator
	logger *slog.Logger
}

// NewRunner creates a Runner backed by the given generator.
func NewRunner(gen Generator, logger *slog.Logger) *Runner {
	return &Runner{gen: gen, logger: logger}
}

// Run floods one target and returns its canonical Result. Numeric fields
// are the generator's own values; only the seconds-to-milliseconds unit
// conversion is applied, never a recomputation of percentiles.
func (r *Runner) Run(ctx context.Context, name string, cfg Config) (Result, error) {
	r.logger.Info("load testing target",
		slog.String("target", name),
		slog.String("url", cfg.URL),
		slog.Duration("duration", cfg.Duration),
		slog.Int("connections", cfg.Connections),
	)

	start := time.Now()

	raw, err := r.gen.Run(ctx, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("load test %s: %w", name, err)
	}

	end := time.Now()

	result := normalize(raw, start, end)

	r.logger.Info("load test finished",
		slog.String("target", name),
		slog.Float64("req_per_sec", result.Throughput.Avg),
		slog.Float64("latency_avg_ms", result.Latency.Avg),
		slog.Int("errors", result.Errors),
		slog.Int("timeouts", result.Timeouts),
	)

	return result, nil
}

func normalize(raw RawResult, start, end time.Time) Result {
	const msPerSec = 1000

	errors, timeouts := countFailures(raw)

	return Result{
		Throughput: Stat{
			Avg:    raw.Summary.RequestsPerSec,
			Min:    raw.RPS.Min,
			Max:    raw.RPS.Max,
			Stddev: raw.RPS.Stddev,
		},
		Latency: LatencyStat{
			Avg: raw.Summary.Average * msPerSec,
			Min: raw.Summary.Fastest * msPerSec,
			Max: raw.Summary.Slowest * msPerSec,
			P50: raw.LatencyPercentiles.P50 * msPerSec,
			P90: raw.LatencyPercentiles.P90 * msPerSec,
			P95: raw.LatencyPercentiles.P95 * msPerSec,
			P99: raw.LatencyPercentiles.P99 * msPerSec,
		},
		Errors:      errors,
		Timeouts:    timeouts,
		DurationSec: raw.Summary.Total,
		StartTime:   start,
		EndTime:     end,
	}
}

// countFailures splits the generator's failure report into errors and
// timeouts. Aborted-deadline entries are timeouts; everything else in the
// error distribution, plus non-2xx responses, counts as an error.
func countFailures(raw RawResult) (errors, timeouts int) {
	for msg, n := range raw.ErrorDistribution {
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline") {
			timeouts += n
		} else {
			errors += n
		}
	}

	for code, n := range raw.StatusCodeDistribution {
		if !strings.HasPrefix(code, "2") {
			errors += n
		}
	}

	return errors, timeouts
}
