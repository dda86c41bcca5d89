// Package state persists the processing cursor and the set of mention ids
// already replied to. The record is a single human-inspectable JSON file,
// rewritten atomically on every mutation. The processed set is append-only
// and never evicted; unbounded growth is an accepted tradeoff.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type record struct {
	SinceID   string   `json:"since_id,omitempty"`
	Processed []string `json:"processed"`
}

// Store is a durable single-writer record of pipeline progress. It is safe
// for use from multiple goroutines within one process, but not for
// concurrent access from multiple processes.
type Store struct {
	path string
	mu   sync.Mutex
	rec  record
}

// Open loads the state file at path, initializing an empty record if the
// file does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, rec: record{Processed: []string{}}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := json.Unmarshal(data, &s.rec); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if s.rec.Processed == nil {
		s.rec.Processed = []string{}
	}

	return s, nil
}

// Cursor returns the newest mention id already fetched, or "" when no pass
// has completed yet.
func (s *Store) Cursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.SinceID
}

// SetCursor advances the cursor. Attempts to move it backwards are ignored,
// keeping the cursor monotonically non-decreasing across updates.
func (s *Store) SetCursor(id string) error {
	if id == "" {
		return nil
	}
	return s.update(func(r *record) {
		if CompareIDs(id, r.SinceID) > 0 {
			r.SinceID = id
		}
	})
}

func (s *Store) IsProcessed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.rec.Processed {
		if p == id {
			return true
		}
	}
	return false
}

// MarkProcessed records that a reply to the mention was confirmed posted.
// Marking an already-processed id is a no-op.
func (s *Store) MarkProcessed(id string) error {
	return s.update(func(r *record) {
		for _, p := range r.Processed {
			if p == id {
				return
			}
		}
		r.Processed = append(r.Processed, id)
	})
}

// ProcessedCount reports the size of the processed set, for diagnostics.
func (s *Store) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rec.Processed)
}

// update applies fn to the record and persists the result. Mutation and
// persistence happen under one lock acquisition so every successful mutation
// reaches disk before the next one starts.
func (s *Store) update(fn func(r *record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.rec.SinceID
	beforeLen := len(s.rec.Processed)

	fn(&s.rec)

	if s.rec.SinceID == before && len(s.rec.Processed) == beforeLen {
		return nil
	}

	return s.persist()
}

// persist rewrites the whole record via a temp file and rename, so a crash
// mid-write cannot leave a corrupt state file behind.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// CompareIDs orders two numeric string ids without parsing them into
// integers, since mention ids overflow int32 and are documented as strings.
// A longer id is always greater; equal lengths fall back to lexicographic
// comparison. Empty ids sort first.
func CompareIDs(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}
	if a > b {
		return 1
	}
	return -1
}
