// Package results persists comparison records as timestamped JSON files
// and maintains a latest.json alias.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kettleby/abench/compare"
)

// ErrNoResults is returned by Latest when nothing has been persisted yet.
var ErrNoResults = errors.New("no results recorded")

const latestFile = "latest.json"

// Store owns one results directory. Exactly one comparison runs at a
// time, so the store does no locking.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on
// first persist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Persist appends the record as <mode>-<date>.json and overwrites
// latest.json. Each file is written whole-or-not-at-all: a failure never
// leaves a partial record behind.
func (s *Store) Persist(rec compare.Record) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	data = append(data, '\n')

	name := fmt.Sprintf("%s-%s.json", rec.Mode,
		rec.Timestamp.Format("2006-01-02"))
	path := filepath.Join(s.dir, name)

	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if err := writeAtomic(filepath.Join(s.dir, latestFile), data); err != nil {
		return "", fmt.Errorf("write latest alias: %w", err)
	}

	return path, nil
}

// Latest returns the most recently persisted record.
func (s *Store) Latest() (compare.Record, error) {
	return s.read(filepath.Join(s.dir, latestFile))
}

// List returns all persisted records ordered by timestamp, oldest first.
// The latest alias is excluded; it duplicates one of the entries.
func (s *Store) List() ([]compare.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read results dir %s: %w", s.dir, err)
	}

	var records []compare.Record

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == latestFile ||
			filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		rec, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records, nil
}

func (s *Store) read(path string) (compare.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return compare.Record{}, ErrNoResults
		}

		return compare.Record{}, fmt.Errorf("read %s: %w", path, err)
	}

	var rec compare.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return compare.Record{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return rec, nil
}

// writeAtomic writes through a temp file in the same directory and
// renames it over the destination.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".abench-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())

		return err
	}

	return nil
}
