package postgres

import (
	"context"
	"fmt"

	"cycleshare/domain/trip"
	"cycleshare/ports"

	"github.com/jmoiron/sqlx"
)

// tripRepository implements the TripStore port on Postgres
type tripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new canonical trip store
func NewTripRepository(db *sqlx.DB) ports.TripStore {
	return &tripRepository{db: db}
}

// InsertIfAbsent inserts a record unless its ride_id already exists.
// ON CONFLICT DO NOTHING makes the primary-key constraint serialize
// concurrent loads of the same ride_id, so the first accepted row wins
// regardless of batch interleaving.
func (r *tripRepository) InsertIfAbsent(ctx context.Context, rec trip.TripRecord) (bool, error) {
	query := `INSERT INTO trips (
		ride_id, rideable_type, started_at, ended_at,
		start_station_name, end_station_name,
		start_lat, start_lng, end_lat, end_lng, member_casual
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
	) ON CONFLICT (ride_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		rec.RideID, rec.RideableType, rec.StartedAt, rec.EndedAt,
		rec.StartStationName, rec.EndStationName,
		rec.StartLat, rec.StartLng, rec.EndLat, rec.EndLng, rec.MemberCasual,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ScanAll returns a full snapshot of the canonical store.
func (r *tripRepository) ScanAll(ctx context.Context) ([]trip.TripRecord, error) {
	query := `SELECT
		ride_id, rideable_type, started_at, ended_at,
		COALESCE(start_station_name, '') as start_station_name,
		COALESCE(end_station_name, '') as end_station_name,
		start_lat, start_lng, end_lat, end_lng, member_casual
	FROM trips ORDER BY ride_id`

	var records []trip.TripRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to scan trips: %w", err)
	}

	return records, nil
}

// Count returns the number of canonical rows.
func (r *tripRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM trips`); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}
