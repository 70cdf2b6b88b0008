package feed

import (
	"testing"
	"time"
)

func TestMapSnapshot(t *testing.T) {
	seenAt := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	t.Run("maps valid products", func(t *testing.T) {
		stores := []feedStore{
			{Name: "ah", Products: []feedProduct{
				{Name: "Halfvolle melk 1L", Price: 1.19, Size: "1L", Link: "producten/123"},
			}},
			{Name: "lidl", Products: []feedProduct{
				{Name: "Halfvolle Melk 1 liter", Price: 1.09},
			}},
		}

		entries := mapSnapshot(stores, seenAt)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}

		first := entries[0]
		if first.StoreID != "ah" {
			t.Errorf("StoreID = %s, want ah", first.StoreID)
		}
		if first.Price != 119 {
			t.Errorf("Price = %d, want 119 cents", first.Price)
		}
		if first.NormalizedName != "halfvolle melk" {
			t.Errorf("NormalizedName = %q, want %q", first.NormalizedName, "halfvolle melk")
		}
		if !first.LastSeen.Equal(seenAt) {
			t.Errorf("LastSeen = %v, want %v", first.LastSeen, seenAt)
		}
	})

	t.Run("quarantines malformed records", func(t *testing.T) {
		stores := []feedStore{
			{Name: "ah", Products: []feedProduct{
				{Name: "", Price: 1.00},              // no name
				{Name: "Gratis item", Price: 0},      // non-positive price
				{Name: "Brood", Price: -1.50},        // negative price
				{Name: "1L 500 gram", Price: 2.00},   // normalizes to nothing
				{Name: "Bruin brood", Price: 1.49},   // valid
			}},
			{Name: "", Products: []feedProduct{
				{Name: "Orphaned", Price: 1.00}, // store without ID
			}},
		}

		entries := mapSnapshot(stores, seenAt)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].ProductName != "Bruin brood" {
			t.Errorf("kept %q, want Bruin brood", entries[0].ProductName)
		}
	})

	t.Run("first-seen entry wins per store for duplicate normalized names", func(t *testing.T) {
		stores := []feedStore{
			{Name: "ah", Products: []feedProduct{
				{Name: "Halfvolle melk 1L", Price: 1.19},
				{Name: "Halfvolle melk, 1 liter", Price: 1.39},
			}},
		}

		entries := mapSnapshot(stores, seenAt)
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].Price != 119 {
			t.Errorf("Price = %d, want first-seen 119", entries[0].Price)
		}
	})

	t.Run("same normalized name in different stores is kept", func(t *testing.T) {
		stores := []feedStore{
			{Name: "ah", Products: []feedProduct{{Name: "Halfvolle melk", Price: 1.19}}},
			{Name: "lidl", Products: []feedProduct{{Name: "Halfvolle melk", Price: 1.09}}},
		}

		if entries := mapSnapshot(stores, seenAt); len(entries) != 2 {
			t.Errorf("got %d entries, want 2", len(entries))
		}
	})
}

func TestEurosToCents(t *testing.T) {
	tests := []struct {
		euros float64
		want  int64
	}{
		{1.19, 119},
		{1.09, 109},
		{0.01, 1},
		{2.00, 200},
		{7.49, 749},
		// Classic float trap: 1.15 is stored slightly below 1.15.
		{1.15, 115},
	}

	for _, tt := range tests {
		if got := eurosToCents(tt.euros); got != tt.want {
			t.Errorf("eurosToCents(%v) = %d, want %d", tt.euros, got, tt.want)
		}
	}
}
