package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cycleshare/domain/trip"
)

func rec(rideID string, rideable trip.RideableType) trip.TripRecord {
	return trip.TripRecord{
		RideID:       rideID,
		RideableType: rideable,
		StartedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local),
		EndedAt:      time.Date(2024, 5, 1, 9, 20, 0, 0, time.Local),
		StartLat:     41.88,
		StartLng:     -87.63,
		EndLat:       41.89,
		EndLng:       -87.64,
		MemberCasual: trip.MemberCasual,
	}
}

func TestInsertIfAbsentFirstWriteWins(t *testing.T) {
	store := New()
	ctx := context.Background()

	inserted, err := store.InsertIfAbsent(ctx, rec("A1", trip.RideableClassicBike))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Fatal("first insert should succeed")
	}

	inserted, err = store.InsertIfAbsent(ctx, rec("A1", trip.RideableElectricBike))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted {
		t.Fatal("second insert with same ride_id should be skipped")
	}

	all, err := store.ScanAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(all))
	}
	if all[0].RideableType != trip.RideableClassicBike {
		t.Errorf("store should hold the first-loaded version, got %s", all[0].RideableType)
	}
}

func TestRideIDUniqueness(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("ride_%d", i%50) // every id delivered twice
		if _, err := store.InsertIfAbsent(ctx, rec(id, trip.RideableClassicBike)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, _ := store.ScanAll(ctx)
	seen := make(map[string]bool)
	for _, r := range all {
		if seen[r.RideID] {
			t.Fatalf("duplicate ride_id in store: %s", r.RideID)
		}
		seen[r.RideID] = true
	}
	if len(all) != 50 {
		t.Errorf("expected 50 unique records, got %d", len(all))
	}
}

func TestConcurrentInsertsSameID(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	insertedCount := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.InsertIfAbsent(ctx, rec("A1", trip.RideableClassicBike))
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			insertedCount <- inserted
		}()
	}
	wg.Wait()
	close(insertedCount)

	wins := 0
	for inserted := range insertedCount {
		if inserted {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("exactly one concurrent insert should win, got %d", wins)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 record, got %d", count)
	}
}

func TestScanAllReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	store.InsertIfAbsent(ctx, rec("A1", trip.RideableClassicBike))

	snapshot, _ := store.ScanAll(ctx)
	snapshot[0].RideableType = trip.RideableElectricScooter

	fresh, _ := store.ScanAll(ctx)
	if fresh[0].RideableType != trip.RideableClassicBike {
		t.Error("mutating a snapshot must not affect the store")
	}
}
