package compare

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/abench/buildtest"
	"github.com/kettleby/abench/loadgen"
	"github.com/kettleby/abench/stats"
)

func TestCompareLowerIsBetter(t *testing.T) {
	out, err := Compare(10, 20, true)
	require.NoError(t, err)

	assert.Equal(t, -50.0, out.PercentDiff)
	assert.Equal(t, SideA, out.Winner)
}

func TestCompareHigherIsBetter(t *testing.T) {
	out, err := Compare(100, 50, false)
	require.NoError(t, err)

	assert.Equal(t, 100.0, out.PercentDiff)
	assert.Equal(t, SideA, out.Winner)
}

func TestCompareBaselineWins(t *testing.T) {
	out, err := Compare(2.64, 0.35, true)
	require.NoError(t, err)

	assert.Equal(t, SideB, out.Winner)

	// And the mirrored comparison: 0.35 vs 2.64 lower-is-better.
	out, err = Compare(0.35, 2.64, true)
	require.NoError(t, err)

	assert.Equal(t, SideA, out.Winner)
	assert.InDelta(t, -86.7, out.PercentDiff, 0.05)
}

func TestCompareTie(t *testing.T) {
	out, err := Compare(5, 5, true)
	require.NoError(t, err)

	assert.Equal(t, SideNone, out.Winner)
	assert.Zero(t, out.PercentDiff)
}

func TestCompareZeroBaseline(t *testing.T) {
	_, err := Compare(10, 0, true)
	require.ErrorIs(t, err, ErrZeroBaseline)
}

func TestPerformanceRecord(t *testing.T) {
	a := map[string]stats.Summary{
		"Homepage": {Avg: 0.35, Min: 0.2, Max: 0.9},
		"Broken":   stats.FailedSummary(10, 10),
	}
	b := map[string]stats.Summary{
		"Homepage": {Avg: 2.64, Min: 1.1, Max: 4.0},
		"Broken":   {Avg: 1.0},
	}

	rec := PerformanceRecord("rover", "nova", a, b)

	assert.Equal(t, ModePerformance, rec.Mode)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Timestamp.IsZero())

	require.Contains(t, rec.Metrics, "Homepage avg latency ms")
	out := rec.Metrics["Homepage avg latency ms"]
	assert.Equal(t, SideA, out.Winner)
	assert.InDelta(t, -86.7, out.PercentDiff, 0.05)

	// Failed scenarios never become metrics.
	assert.NotContains(t, rec.Metrics, "Broken avg latency ms")
	assert.NotContains(t, rec.Metrics, "overall avg latency ms")
}

func TestLoadTestRecord(t *testing.T) {
	a := loadgen.Result{
		Throughput: loadgen.Stat{Avg: 4000},
		Latency:    loadgen.LatencyStat{Avg: 12, P95: 31, P99: 55},
	}
	b := loadgen.Result{
		Throughput: loadgen.Stat{Avg: 2000},
		Latency:    loadgen.LatencyStat{Avg: 25, P95: 60, P99: 120},
	}

	rec := LoadTestRecord("rover", "nova", a, b)

	assert.Equal(t, ModeLoadTest, rec.Mode)
	assert.Equal(t, SideA, rec.Metrics["throughput req/s"].Winner)
	assert.Equal(t, 100.0, rec.Metrics["throughput req/s"].PercentDiff)
	assert.Equal(t, SideA, rec.Metrics["avg latency ms"].Winner)
	assert.Equal(t, SideA, rec.Metrics["p95 latency ms"].Winner)
}

func TestBuildRecordMissingBundles(t *testing.T) {
	size := int64(100 * 1024)
	count := 7

	a := buildtest.Result{Success: true, DurationMs: 5000,
		BundleSizeBytes: &size, ChunkCount: &count}
	b := buildtest.Result{Success: false, DurationMs: 9000, ExitCode: 1}

	rec := BuildRecord("rover", "nova", a, b)

	assert.Equal(t, SideA, rec.Metrics["build time ms"].Winner)
	assert.NotContains(t, rec.Metrics, "bundle size bytes",
		"failed build has no bundle to compare")
	assert.NotContains(t, rec.Metrics, "chunk count")
}

func TestWriteReport(t *testing.T) {
	a := loadgen.Result{
		Throughput: loadgen.Stat{Avg: 4000},
		Latency:    loadgen.LatencyStat{Avg: 12.5, P95: 31, P99: 55},
		Errors:     3, Timeouts: 1,
	}
	b := loadgen.Result{
		Throughput: loadgen.Stat{Avg: 2000},
		Latency:    loadgen.LatencyStat{Avg: 25, P95: 60, P99: 120},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, LoadTestRecord("rover", "nova", a, b)))

	out := buf.String()
	assert.Contains(t, out, "rover")
	assert.Contains(t, out, "nova")
	assert.Contains(t, out, "+100.0%")
	assert.Contains(t, out, "throughput req/s")
	assert.Contains(t, out, "3 (1 timeouts)")
}

func TestWriteReportBuildDetails(t *testing.T) {
	size := int64(100 * 1024)
	count := 7

	a := buildtest.Result{Success: true, DurationMs: 5000,
		BundleSizeBytes: &size, ChunkCount: &count, WarningCount: 2}
	b := buildtest.Result{Success: false, DurationMs: 9000, ExitCode: 1}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, BuildRecord("rover", "nova", a, b)))

	out := buf.String()
	assert.Contains(t, out, "bundle 100 KB in 7 files")
	assert.Contains(t, out, "build failed (exit 1)")
	assert.Contains(t, out, "warnings 2")
}

func TestWriteReportNoMetrics(t *testing.T) {
	rec := newRecord(ModePerformance, "rover", "nova")

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, rec))

	assert.Contains(t, buf.String(), "No comparable metrics")
}

func TestWriteJSONRoundTrips(t *testing.T) {
	rec := PerformanceRecord("rover", "nova",
		map[string]stats.Summary{"Homepage": {Avg: 1}},
		map[string]stats.Summary{"Homepage": {Avg: 2}},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rec))

	assert.True(t, strings.Contains(buf.String(), rec.ID))
	assert.Contains(t, buf.String(), "\"percentDiff\": -50")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "-", FormatBytes(0))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "100 KB", FormatBytes(100*1024))
	assert.Equal(t, "1.5 MB", FormatBytes(3*1024*1024/2))
}
