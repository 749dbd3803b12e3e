package results

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kettleby/abench/compare"
	"github.com/kettleby/abench/stats"
)

func perfRecord(ts time.Time) compare.Record {
	rec := compare.PerformanceRecord("rover", "nova",
		map[string]stats.Summary{"Homepage": {Avg: 1, Min: 0.5, Max: 2}},
		map[string]stats.Summary{"Homepage": {Avg: 4, Min: 2, Max: 8}},
	)
	rec.Timestamp = ts

	return rec
}

func TestPersistAndLatestRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results"))

	want := perfRecord(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

	path, err := store.Persist(want)
	require.NoError(t, err)
	assert.Equal(t, "performance-2026-03-14.json", filepath.Base(path))

	got, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPersistAllModes(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, mode := range []string{
		compare.ModePerformance, compare.ModeLoadTest, compare.ModeBuildTest,
	} {
		rec := perfRecord(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
		rec.Mode = mode

		path, err := store.Persist(rec)
		require.NoError(t, err)
		assert.Equal(t, mode+"-2026-01-02.json", filepath.Base(path))

		got, err := store.Latest()
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	}
}

func TestLatestOverwritten(t *testing.T) {
	store := NewStore(t.TempDir())

	first := perfRecord(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	second := perfRecord(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))

	_, err := store.Persist(first)
	require.NoError(t, err)
	_, err = store.Persist(second)
	require.NoError(t, err)

	got, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestLatestEmptyStore(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))

	_, err := store.Latest()
	require.ErrorIs(t, err, ErrNoResults)
}

func TestListOrdersByTimestamp(t *testing.T) {
	store := NewStore(t.TempDir())

	older := perfRecord(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := perfRecord(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	newer.Mode = compare.ModeLoadTest

	_, err := store.Persist(newer)
	require.NoError(t, err)
	_, err = store.Persist(older)
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, older.ID, records[0].ID)
	assert.Equal(t, newer.ID, records[1].ID)
}

func TestListEmptyDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPersistIdempotentDirCreation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(dir, 0o755))

	store := NewStore(dir)

	_, err := store.Persist(perfRecord(time.Now().UTC()))
	require.NoError(t, err)
	_, err = store.Persist(perfRecord(time.Now().UTC()))
	require.NoError(t, err)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.Persist(perfRecord(time.Now().UTC()))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".abench-")
	}
}
