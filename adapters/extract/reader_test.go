package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const extractHeader = "ride_id,rideable_type,started_at,ended_at,start_station_name,start_station_id,end_station_name,end_station_id,start_lat,start_lng,end_lat,end_lng,member_casual\n"

func writeExtract(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write extract: %v", err)
	}
	return path
}

func TestFileSourceReadCSV(t *testing.T) {
	content := extractHeader +
		"A1,classic_bike,2024-06-01 08:00:00,2024-06-01 08:15:00,Station 01,S01,Station 02,S02,41.88,-87.63,41.89,-87.64,member\n" +
		"A2,electric_bike,2024-06-01 09:00:00,2024-06-01 09:05:00,,,Station 03,S03,41.90,-87.62,41.91,-87.61,casual\n"

	source := NewFileSource(writeExtract(t, "202406-trips.csv", content))
	if source.Name() != "202406-trips.csv" {
		t.Errorf("unexpected source name: %s", source.Name())
	}

	results, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}
	for _, r := range results {
		if !r.Ok() {
			t.Errorf("row %d should parse cleanly: %v", r.Line, r.Err)
		}
	}
	if results[0].Row.RideID != "A1" || results[1].Row.RideID != "A2" {
		t.Error("rows should come back in file order")
	}
	if results[1].Row.StartStationName != "" {
		t.Error("empty station name should stay empty")
	}
}

func TestFileSourceRowErrorsDoNotAbortBatch(t *testing.T) {
	content := extractHeader +
		"A1,classic_bike,2024-06-01 08:00:00,2024-06-01 08:15:00,Station 01,S01,Station 02,S02,41.88,-87.63,41.89,-87.64,member\n" +
		"A2,classic_bike,not-a-timestamp,2024-06-01 09:05:00,,,Station 03,S03,41.90,-87.62,41.91,-87.61,casual\n" +
		"A3,short,row\n" +
		"A4,electric_bike,2024-06-01 10:00:00,2024-06-01 10:30:00,,,,,41.92,-87.60,41.93,-87.59,casual\n"

	source := NewFileSource(writeExtract(t, "dirty.csv", content))
	results, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("row-level problems must not fail the extract: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 row results, got %d", len(results))
	}

	ok, failed := 0, 0
	for _, r := range results {
		if r.Ok() {
			ok++
		} else {
			failed++
		}
	}
	if ok != 2 || failed != 2 {
		t.Errorf("expected 2 clean and 2 failed rows, got %d clean / %d failed", ok, failed)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	source := NewFileSource("/nonexistent/202401-trips.csv")
	if _, err := source.Read(context.Background()); err == nil {
		t.Fatal("missing extract file must fail outright")
	}
}

func TestFileSourceEmptyFile(t *testing.T) {
	source := NewFileSource(writeExtract(t, "empty.csv", ""))
	if _, err := source.Read(context.Background()); err == nil {
		t.Fatal("an extract without a header row must fail outright")
	}
}

func TestFileSourceHeaderOnly(t *testing.T) {
	source := NewFileSource(writeExtract(t, "header.csv", extractHeader))
	results, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("header-only extract should read as zero rows: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no rows, got %d", len(results))
	}
}
