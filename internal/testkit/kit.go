// Package testkit wires an in-memory pipeline with synthetic extracts
// for tests and storeless demo runs.
package testkit

import (
	"context"
	"fmt"

	"cycleshare/adapters/memstore"
	"cycleshare/app"
	"cycleshare/domain/trip"
	"cycleshare/internal"
	"cycleshare/internal/analysis"
	"cycleshare/ports"
)

// SliceSource serves pre-built raw trips as an ExtractSource, skipping
// file I/O. Rows may carry injected errors to exercise the loader's
// row-level error handling.
type SliceSource struct {
	ExtractName string
	Results     []ports.RowResult
}

// NewSliceSource wraps parsed raw trips as an extract.
func NewSliceSource(name string, rows []trip.RawTrip) *SliceSource {
	results := make([]ports.RowResult, len(rows))
	for i, row := range rows {
		results[i] = ports.RowResult{Line: i + 1, Row: row}
	}
	return &SliceSource{ExtractName: name, Results: results}
}

// Name identifies the extract.
func (s *SliceSource) Name() string { return s.ExtractName }

// Read returns the pre-built rows.
func (s *SliceSource) Read(ctx context.Context) ([]ports.RowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Results, nil
}

// Kit bundles a fully wired in-memory pipeline.
type Kit struct {
	Store      *memstore.Store
	Loader     *app.LoaderService
	Aggregates *app.AggregateService
	Generator  *TripGenerator
}

// NewKit creates a pipeline over an in-memory store with the default
// outlier policy and a seeded generator.
func NewKit(config GeneratorConfig) *Kit {
	store := memstore.New()
	logger := internal.NewLogger(internal.LogLevelError)
	return &Kit{
		Store:      store,
		Loader:     app.NewLoaderService(store, logger),
		Aggregates: app.NewAggregateService(store, analysis.DefaultPolicy()),
		Generator:  NewTripGenerator(config),
	}
}

// LoadSynthetic generates overlapping monthly extracts and loads them
// all, returning the combined report.
func (k *Kit) LoadSynthetic(ctx context.Context, overlap int) (app.LoadReport, error) {
	extracts := k.Generator.GenerateMonthly(overlap)
	sources := make([]ports.ExtractSource, len(extracts))
	for i, rows := range extracts {
		sources[i] = NewSliceSource(fmt.Sprintf("synthetic-%02d", i+1), rows)
	}
	return k.Loader.LoadAll(ctx, sources)
}
