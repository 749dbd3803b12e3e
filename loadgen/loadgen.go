// Package loadgen runs a time-boxed concurrent request flood against one
// HTTP target. The flood itself is delegated to an external generator
// behind the Generator interface; this package only configures the
// generator, awaits its structured output, and normalizes it into the
// canonical Result shape.
package loadgen

import (
	"context"
	"time"
)

// Config holds the parameters for one load-test invocation.
type Config struct {
	URL            string
	Duration       time.Duration
	Connections    int
	Pipelining     int
	RequestTimeout time.Duration
}

// Generator is the external load-generation capability: open Connections
// concurrent connections, sustain requests for Duration, abort any request
// exceeding RequestTimeout. Implementations must not recompute the
// generator's statistics; RawResult carries them verbatim.
type Generator interface {
	// Check verifies the generator is usable before any load is applied.
	Check(ctx context.Context) error
	Run(ctx context.Context, cfg Config) (RawResult, error)
}

// RawResult is the generator's own report, field for field. Durations are
// in seconds as the generator emits them; conversion to milliseconds
// happens once, during normalization.
type RawResult struct {
	Summary struct {
		SuccessRate    float64 `json:"successRate"`
		Total          float64 `json:"total"`
		Slowest        float64 `json:"slowest"`
		Fastest        float64 `json:"fastest"`
		Average        float64 `json:"average"`
		RequestsPerSec float64 `json:"requestsPerSec"`
		TotalData      int64   `json:"totalData"`
		SizePerSec     float64 `json:"sizePerSec"`
	} `json:"summary"`
	LatencyPercentiles struct {
		P50 float64 `json:"p50"`
		P90 float64 `json:"p90"`
		P95 float64 `json:"p95"`
		P99 float64 `json:"p99"`
	} `json:"latencyPercentiles"`
	RPS struct {
		Mean   float64 `json:"mean"`
		Stddev float64 `json:"stddev"`
		Max    float64 `json:"max"`
		Min    float64 `json:"min"`
	} `json:"rps"`
	StatusCodeDistribution map[string]int `json:"statusCodeDistribution"`
	ErrorDistribution      map[string]int `json:"errorDistribution"`
}

// Stat summarizes one throughput series in requests per second.
type Stat struct {
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Stddev float64 `json:"stddev"`
}

// LatencyStat summarizes the latency distribution in milliseconds.
type LatencyStat struct {
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Stddev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Result is the canonical load-test record for one target. Immutable
// after creation.
type Result struct {
	Throughput  Stat        `json:"throughput"`
	Latency     LatencyStat `json:"latency"`
	Errors      int         `json:"errors"`
	Timeouts    int         `json:"timeouts"`
	DurationSec float64     `json:"durationSec"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
}
