// Package compare computes relative differences between two measured
// targets and assembles timestamped comparison records.
package compare

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kettleby/abench/buildtest"
	"github.com/kettleby/abench/loadgen"
	"github.com/kettleby/abench/stats"
)

// ErrZeroBaseline is returned when the baseline value of a percent
// difference is zero. Callers omit the metric instead of failing the run.
var ErrZeroBaseline = errors.New("baseline value is zero")

// Side identifies the winner of one metric.
type Side string

const (
	SideA    Side = "a"
	SideB    Side = "b"
	SideNone Side = ""
)

// Comparison modes.
const (
	ModePerformance = "performance"
	ModeLoadTest    = "loadtest"
	ModeBuildTest   = "buildtest"
)

// Outcome holds one metric's A/B values, the relative difference of A
// against baseline B, and the winning side.
type Outcome struct {
	ValueA      float64 `json:"valueA"`
	ValueB      float64 `json:"valueB"`
	PercentDiff float64 `json:"percentDiff"`
	Winner      Side    `json:"winner,omitempty"`
}

// Record is one persisted comparison. Append-only once written.
type Record struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Mode      string             `json:"mode"`
	TargetA   string             `json:"targetA"`
	TargetB   string             `json:"targetB"`
	Metrics   map[string]Outcome `json:"metrics"`

	Performance *PerformanceDetail `json:"performance,omitempty"`
	LoadTest    *LoadTestDetail    `json:"loadTest,omitempty"`
	Build       *BuildDetail       `json:"build,omitempty"`
}

// PerformanceDetail carries the per-scenario summaries behind a
// performance-mode record.
type PerformanceDetail struct {
	A map[string]stats.Summary `json:"a"`
	B map[string]stats.Summary `json:"b"`
}

// LoadTestDetail carries both raw load-test results.
type LoadTestDetail struct {
	A loadgen.Result `json:"a"`
	B loadgen.Result `json:"b"`
}

// BuildDetail carries both build results.
type BuildDetail struct {
	A buildtest.Result `json:"a"`
	B buildtest.Result `json:"b"`
}

// Compare computes the percent difference of a against baseline b and
// picks the winner under the metric's polarity. Equal values have no
// winner. A zero baseline yields ErrZeroBaseline; percent difference is
// undefined there.
func Compare(a, b float64, lowerIsBetter bool) (Outcome, error) {
	if b == 0 {
		return Outcome{}, ErrZeroBaseline
	}

	out := Outcome{
		ValueA:      a,
		ValueB:      b,
		PercentDiff: (a - b) / b * 100,
	}

	switch {
	case a == b:
		out.Winner = SideNone
	case (a < b) == lowerIsBetter:
		out.Winner = SideA
	default:
		out.Winner = SideB
	}

	return out, nil
}

func newRecord(mode, targetA, targetB string) Record {
	return Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Mode:      mode,
		TargetA:   targetA,
		TargetB:   targetB,
		Metrics:   make(map[string]Outcome),
	}
}

// addMetric records one comparison, silently omitting metrics with a zero
// baseline.
func (r *Record) addMetric(name string, a, b float64, lowerIsBetter bool) {
	out, err := Compare(a, b, lowerIsBetter)
	if err != nil {
		return
	}

	r.Metrics[name] = out
}
