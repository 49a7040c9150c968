// Package store provides the in-memory registry of series snapshots
// the export service reads from. The engine side (HTTP transport or
// embedding application) registers snapshots; exports never mutate
// them.
package store

import (
	"sort"
	"sync"
	"time"

	serr "serex/pkg/errors"
	"serex/pkg/series"
)

// Record wraps a registered series with registry metadata.
type Record struct {
	Series       *series.Series
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

// Store is an in-memory series registry guarded by an RWMutex.
// Registering an existing name replaces the snapshot.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]*Record),
	}
}

// Register adds a series snapshot under its name, replacing any
// previous snapshot with that name.
func (s *Store) Register(sr *series.Series) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	name := sr.Name()

	if existing, ok := s.records[name]; ok {
		updated := &Record{
			Series:       sr,
			RegisteredAt: existing.RegisteredAt,
			UpdatedAt:    now,
		}
		s.records[name] = updated
		return updated
	}

	record := &Record{
		Series:       sr,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	s.records[name] = record
	return record
}

// Get retrieves a registered series by name.
func (s *Store) Get(name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[name]
	if !ok {
		return nil, serr.NotFound("series " + name)
	}

	// Return a copy to prevent external modification of the metadata.
	// The series itself is immutable.
	recordCopy := *record
	return &recordCopy, nil
}

// List returns all registered records sorted by series name.
func (s *Store) List() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Record, 0, len(s.records))
	for _, record := range s.records {
		recordCopy := *record
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Series.Name() < result[j].Series.Name()
	})

	return result
}

// Names returns the registered series names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Remove deletes a registered series by name.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[name]; !ok {
		return serr.NotFound("series " + name)
	}

	delete(s.records, name)
	return nil
}

// Len returns the number of registered series.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Stats returns registry statistics keyed by dtype plus a total.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]int{
		"total": len(s.records),
	}

	for _, record := range s.records {
		stats[string(record.Series.DType())]++
	}

	return stats
}
