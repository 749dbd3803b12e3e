// Package stats aggregates raw request samples into summary statistics.
package stats

import (
	"errors"
	"sort"
)

// ErrEmptySamples is returned when aggregation is attempted over a run
// that produced no successful samples.
var ErrEmptySamples = errors.New("no successful samples to aggregate")

// Sample is one successful request observation.
type Sample struct {
	LatencyMs float64
	BodyBytes int
}

// Summary holds aggregate statistics for one scenario against one target.
// Latency fields are in milliseconds. When Failed is set, no latency or
// size fields are populated.
type Summary struct {
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Avg            float64 `json:"avg"`
	P50            float64 `json:"p50"`
	P95            float64 `json:"p95"`
	P99            float64 `json:"p99"`
	AvgSize        int     `json:"avgSize"`
	ErrorCount     int     `json:"errors"`
	SuccessRatePct float64 `json:"successRate"`
	Attempted      int     `json:"attempted"`
	Failed         bool    `json:"failed,omitempty"`
}

// Aggregate computes a Summary from the successful samples of a run that
// attempted `attempted` requests, `errorCount` of which failed. It returns
// ErrEmptySamples when samples is empty so callers can report the scenario
// as failed instead of producing NaN-bearing statistics.
func Aggregate(samples []Sample, errorCount, attempted int) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrEmptySamples
	}

	sorted := make([]float64, len(samples))

	var latencySum float64
	var sizeSum int

	for i, s := range samples {
		sorted[i] = s.LatencyMs
		latencySum += s.LatencyMs
		sizeSum += s.BodyBytes
	}

	sort.Float64s(sorted)

	successRate := 0.0
	if attempted > 0 {
		successRate = float64(attempted-errorCount) / float64(attempted) * 100
	}

	return Summary{
		Min:            sorted[0],
		Max:            sorted[len(sorted)-1],
		Avg:            latencySum / float64(len(samples)),
		P50:            percentile(sorted, 0.50),
		P95:            percentile(sorted, 0.95),
		P99:            percentile(sorted, 0.99),
		AvgSize:        sizeSum / len(samples),
		ErrorCount:     errorCount,
		SuccessRatePct: successRate,
		Attempted:      attempted,
	}, nil
}

// FailedSummary returns the record for a scenario whose measured requests
// all failed. Latency fields stay zero and Failed is set.
func FailedSummary(errorCount, attempted int) Summary {
	return Summary{
		ErrorCount: errorCount,
		Attempted:  attempted,
		Failed:     true,
	}
}

// percentile selects the nearest-rank percentile from an ascending-sorted
// slice: index floor(n*p), clamped to the slice bounds. No interpolation;
// persisted results depend on this exact quantization.
func percentile(sorted []float64, p float64) float64 {
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	if idx < 0 {
		idx = 0
	}

	return sorted[idx]
}
