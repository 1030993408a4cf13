// Package memstore provides an in-memory TripStore used by tests and by
// runs without a configured database. Semantics match the Postgres
// store: insert-if-absent on ride_id, append-only, snapshot reads.
package memstore

import (
	"context"
	"sync"

	"cycleshare/domain/trip"
)

// Store is an in-memory canonical trip store.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]int
	trips []trip.TripRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[string]int)}
}

// InsertIfAbsent inserts the record unless its ride_id is already
// present. The mutex serializes conflicting inserts, so the first
// accepted row wins under concurrent batch loads.
func (s *Store) InsertIfAbsent(ctx context.Context, rec trip.TripRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.RideID]; exists {
		return false, nil
	}
	s.byID[rec.RideID] = len(s.trips)
	s.trips = append(s.trips, rec)
	return true, nil
}

// ScanAll returns a snapshot of all records in insertion order.
func (s *Store) ScanAll(ctx context.Context) ([]trip.TripRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]trip.TripRecord, len(s.trips))
	copy(out, s.trips)
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.trips)), nil
}
