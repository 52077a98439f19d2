// Package snapshot persists the complete raw record collection as a
// single JSON document and serves as a read-through cache in front of
// the network fetch.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paydata/payplan/pkg/record"
)

// Prometheus metrics for snapshot cache operations.
var (
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payplan_snapshot_hits_total",
		Help: "Runs that loaded records from an existing snapshot",
	})

	missesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payplan_snapshot_misses_total",
		Help: "Runs that found no snapshot and had to fetch",
	})
)

// ErrNotExist is returned by Load when no snapshot file is present.
var ErrNotExist = errors.New("snapshot: file does not exist")

// document is the on-disk shape, identical to the upstream export format
// so existing data files remain loadable.
type document struct {
	Data []record.Raw `json:"data"`
}

// Store reads and writes the snapshot at a fixed path. Writes are atomic
// (temp file + rename), which upholds the cache invariant the rest of
// the pipeline relies on: if the file exists, it is complete.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a store for the given snapshot path.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: log.With().Str("component", "snapshot").Logger(),
	}
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot and returns its raw records in stored order.
// A missing file is reported as ErrNotExist.
func (s *Store) Load() ([]record.Raw, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			missesTotal.Inc()
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", s.path, err)
	}

	hitsTotal.Inc()
	s.logger.Info().Str("path", s.path).Int("records", len(doc.Data)).Msg("loaded snapshot")
	return doc.Data, nil
}

// Write persists the raw records. The document is written to a temp file
// in the destination directory and renamed into place, so a failed run
// never leaves a partial snapshot behind.
func (s *Store) Write(rows []record.Raw) error {
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: create directory %s: %w", dir, err)
		}
	}

	payload, err := json.MarshalIndent(document{Data: rows}, "", "    ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(append(payload, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("snapshot: rename into place: %w", err)
	}

	s.logger.Info().Str("path", s.path).Int("records", len(rows)).Msg("wrote snapshot")
	return nil
}
