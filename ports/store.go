package ports

import (
	"context"

	"cycleshare/domain/trip"
)

// TripStore is the canonical store collaborator: an append-only,
// primary-key-unique collection of accepted TripRecords. The loader is
// the only writer; the analysis engines only read snapshots.
type TripStore interface {
	// InsertIfAbsent inserts the record unless a row with the same
	// ride_id already exists. It reports whether the record was
	// inserted; false means the existing row won (first-write-wins).
	InsertIfAbsent(ctx context.Context, rec trip.TripRecord) (bool, error)

	// ScanAll returns a full snapshot of the canonical store.
	ScanAll(ctx context.Context) ([]trip.TripRecord, error)

	// Count returns the number of canonical rows.
	Count(ctx context.Context) (int64, error)
}
