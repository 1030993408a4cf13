package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cycleshare/domain/trip"
	"cycleshare/internal/errors"
	"cycleshare/ports"
)

// Raw extract schema: 13 fixed columns. The station ID columns are
// accepted on input but dropped; they feed no derived field and no
// aggregate.
const (
	colRideID = iota
	colRideableType
	colStartedAt
	colEndedAt
	colStartStationName
	colStartStationID
	colEndStationName
	colEndStationID
	colStartLat
	colStartLng
	colEndLat
	colEndLng
	colMemberCasual

	columnCount
)

// Extracts carry naive local timestamps with no zone designator. Both
// observed layouts are accepted; no timezone conversion is applied.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseRow converts one extract record into a RawTrip. Any malformed
// field yields a row-level parse error carried in the result.
func parseRow(line int, record []string) ports.RowResult {
	if len(record) != columnCount {
		return ports.RowResult{
			Line: line,
			Err:  errors.ParseError(fmt.Sprintf("row %d: expected %d columns, got %d", line, columnCount, len(record)), nil),
		}
	}

	rideID := strings.TrimSpace(record[colRideID])
	if rideID == "" {
		return ports.RowResult{
			Line: line,
			Err:  errors.ParseError(fmt.Sprintf("row %d: empty ride_id", line), nil),
		}
	}

	startedAt, err := parseTimestamp(record[colStartedAt])
	if err != nil {
		return ports.RowResult{
			Line: line,
			Err:  errors.ParseError(fmt.Sprintf("row %d: bad started_at", line), err),
		}
	}
	endedAt, err := parseTimestamp(record[colEndedAt])
	if err != nil {
		return ports.RowResult{
			Line: line,
			Err:  errors.ParseError(fmt.Sprintf("row %d: bad ended_at", line), err),
		}
	}

	raw := trip.RawTrip{
		RideID:           rideID,
		RideableType:     strings.TrimSpace(record[colRideableType]),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		StartStationName: strings.TrimSpace(record[colStartStationName]),
		EndStationName:   strings.TrimSpace(record[colEndStationName]),
		MemberCasual:     strings.TrimSpace(record[colMemberCasual]),
	}

	coords := []struct {
		name string
		col  int
		dst  **float64
	}{
		{"start_lat", colStartLat, &raw.StartLat},
		{"start_lng", colStartLng, &raw.StartLng},
		{"end_lat", colEndLat, &raw.EndLat},
		{"end_lng", colEndLng, &raw.EndLng},
	}
	for _, c := range coords {
		cell := strings.TrimSpace(record[c.col])
		if cell == "" {
			continue // absent coordinate; the validator rejects the row
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return ports.RowResult{
				Line: line,
				Err:  errors.ParseError(fmt.Sprintf("row %d: bad %s", line, c.name), err),
			}
		}
		*c.dst = &v
	}

	return ports.RowResult{Line: line, Row: raw}
}

func parseTimestamp(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, cell, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
