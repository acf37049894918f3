package model

import (
	"testing"
	"time"
)

func TestInScope(t *testing.T) {
	tests := []struct {
		regionID int
		want     bool
	}{
		{10000002, true},  // The Forge
		{10999999, true},  // last known-space ID
		{11000000, false}, // first wormhole region
		{11000030, false},
		{11000031, true}, // Thera
		{20000001, false},
	}

	for _, tt := range tests {
		if got := InScope(tt.regionID); got != tt.want {
			t.Errorf("InScope(%d) = %v, want %v", tt.regionID, got, tt.want)
		}
	}
}

func TestFilterRegions(t *testing.T) {
	regions := []Region{
		{ID: 10000002, Name: "The Forge"},
		{ID: 11000000, Name: "J7HZ-F"},
		{ID: 11000031, Name: "Thera"},
	}

	got := FilterRegions(regions)
	if len(got) != 2 {
		t.Fatalf("FilterRegions returned %d regions, want 2", len(got))
	}
	if got[0].ID != 10000002 || got[1].ID != 11000031 {
		t.Errorf("FilterRegions kept %v, want The Forge and Thera", got)
	}
}

func TestTimestampString(t *testing.T) {
	ts := time.Date(2016, 3, 14, 9, 26, 53, 589793238, time.UTC)
	got := TimestampString(ts)
	want := "2016-03-14T09:26:53+00:00"
	if got != want {
		t.Errorf("TimestampString = %q, want %q", got, want)
	}

	// Non-UTC input must be normalized to UTC.
	loc := time.FixedZone("CEST", 2*3600)
	got = TimestampString(time.Date(2016, 3, 14, 11, 26, 53, 0, loc))
	if got != want {
		t.Errorf("TimestampString(non-UTC) = %q, want %q", got, want)
	}
}

func TestNewUploadBatch(t *testing.T) {
	orders := []Order{{ID: 1}, {ID: 2}}
	b := NewUploadBatch(10000002, 34, orders)

	if b.RegionID != 10000002 || b.TypeID != 34 {
		t.Errorf("batch keyed as (%d, %d), want (10000002, 34)", b.RegionID, b.TypeID)
	}
	if len(b.Orders) != 2 {
		t.Errorf("batch has %d orders, want 2", len(b.Orders))
	}
	if b.GeneratedAt == "" {
		t.Error("batch has empty GeneratedAt")
	}

	other := NewUploadBatch(10000002, 34, orders)
	if b.ID == other.ID {
		t.Error("two batches share an ID")
	}
}
