package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplesFrom(latencies ...float64) []Sample {
	out := make([]Sample, len(latencies))
	for i, l := range latencies {
		out[i] = Sample{LatencyMs: l, BodyBytes: 1000}
	}

	return out
}

func TestAggregateBasic(t *testing.T) {
	samples := samplesFrom(5, 1, 3, 2, 4)

	summary, err := Aggregate(samples, 0, 5)
	require.NoError(t, err)

	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 5.0, summary.Max)
	assert.Equal(t, 3.0, summary.Avg)
	assert.Equal(t, 1000, summary.AvgSize)
	assert.Equal(t, 100.0, summary.SuccessRatePct)
	assert.False(t, summary.Failed)
}

func TestAggregatePercentileOrdering(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 2},
		{3, 1, 2},
		{9, 2, 7, 4, 1, 8, 3, 6, 5, 10},
		{1.5, 1.5, 1.5, 1.5},
	}

	for _, latencies := range cases {
		summary, err := Aggregate(samplesFrom(latencies...), 0, len(latencies))
		require.NoError(t, err)

		assert.LessOrEqual(t, summary.Min, summary.P50)
		assert.LessOrEqual(t, summary.P50, summary.P95)
		assert.LessOrEqual(t, summary.P95, summary.P99)
		assert.LessOrEqual(t, summary.P99, summary.Max)
	}
}

func TestAggregateNearestRank(t *testing.T) {
	// Ten sorted values: index = floor(10*p), clamped.
	samples := samplesFrom(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	summary, err := Aggregate(samples, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 6.0, summary.P50)  // floor(10*0.50) = 5
	assert.Equal(t, 10.0, summary.P95) // floor(10*0.95) = 9
	assert.Equal(t, 10.0, summary.P99) // floor(10*0.99) = 9
}

func TestAggregateSingleSample(t *testing.T) {
	summary, err := Aggregate(samplesFrom(7), 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 7.0, summary.Min)
	assert.Equal(t, 7.0, summary.P50)
	assert.Equal(t, 7.0, summary.P99)
	assert.Equal(t, 7.0, summary.Max)
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil, 10, 10)
	require.ErrorIs(t, err, ErrEmptySamples)
}

func TestAggregateSuccessRate(t *testing.T) {
	summary, err := Aggregate(samplesFrom(1, 2, 3), 2, 5)
	require.NoError(t, err)

	assert.Equal(t, 60.0, summary.SuccessRatePct)
	assert.Equal(t, 2, summary.ErrorCount)
}

func TestFailedSummary(t *testing.T) {
	summary := FailedSummary(10, 10)

	assert.True(t, summary.Failed)
	assert.Equal(t, 10, summary.ErrorCount)
	assert.Equal(t, 10, summary.Attempted)
	assert.Zero(t, summary.Min)
	assert.Zero(t, summary.Avg)
	assert.Zero(t, summary.P99)
}
