package ports

import (
	"context"

	"cycleshare/domain/trip"
)

// RowResult carries one extract row through the pipeline: either a
// parsed raw trip or the row-level parse error that replaced it. A
// failed row never aborts its batch.
type RowResult struct {
	Line int // 1-based data row number within the extract
	Row  trip.RawTrip
	Err  error
}

// Ok reports whether the row parsed cleanly.
func (r RowResult) Ok() bool { return r.Err == nil }

// ExtractSource reads one tabular extract into per-row results. Read
// fails outright only when the extract itself is unreadable (missing
// file, bad container format); malformed individual rows surface as
// RowResult errors.
type ExtractSource interface {
	// Name identifies the extract for load reporting and logs.
	Name() string

	Read(ctx context.Context) ([]RowResult, error)
}
