package compare

import (
	"github.com/kettleby/abench/buildtest"
	"github.com/kettleby/abench/loadgen"
	"github.com/kettleby/abench/stats"
)

// PerformanceRecord folds two per-scenario summary maps into a record.
// Scenarios missing or failed on either side contribute no metric; a run
// where every scenario failed still produces a (metric-less) record.
func PerformanceRecord(targetA, targetB string, a, b map[string]stats.Summary) Record {
	rec := newRecord(ModePerformance, targetA, targetB)
	rec.Performance = &PerformanceDetail{A: a, B: b}

	var sumA, sumB float64
	var valid int

	for name, sa := range a {
		sb, ok := b[name]
		if !ok || sa.Failed || sb.Failed {
			continue
		}

		rec.addMetric(name+" avg latency ms", sa.Avg, sb.Avg, true)

		sumA += sa.Avg
		sumB += sb.Avg
		valid++
	}

	if valid > 1 {
		rec.addMetric("overall avg latency ms",
			sumA/float64(valid), sumB/float64(valid), true)
	}

	return rec
}

// LoadTestRecord folds two canonical load-test results into a record.
func LoadTestRecord(targetA, targetB string, a, b loadgen.Result) Record {
	rec := newRecord(ModeLoadTest, targetA, targetB)
	rec.LoadTest = &LoadTestDetail{A: a, B: b}

	rec.addMetric("throughput req/s", a.Throughput.Avg, b.Throughput.Avg, false)
	rec.addMetric("avg latency ms", a.Latency.Avg, b.Latency.Avg, true)
	rec.addMetric("p95 latency ms", a.Latency.P95, b.Latency.P95, true)
	rec.addMetric("p99 latency ms", a.Latency.P99, b.Latency.P99, true)

	return rec
}

// BuildRecord folds two build results into a record. Bundle metrics are
// compared only when both targets produced artifacts.
func BuildRecord(targetA, targetB string, a, b buildtest.Result) Record {
	rec := newRecord(ModeBuildTest, targetA, targetB)
	rec.Build = &BuildDetail{A: a, B: b}

	rec.addMetric("build time ms", a.DurationMs, b.DurationMs, true)

	if a.BundleSizeBytes != nil && b.BundleSizeBytes != nil {
		rec.addMetric("bundle size bytes",
			float64(*a.BundleSizeBytes), float64(*b.BundleSizeBytes), true)
	}

	if a.ChunkCount != nil && b.ChunkCount != nil {
		rec.addMetric("chunk count",
			float64(*a.ChunkCount), float64(*b.ChunkCount), true)
	}

	return rec
}
