package cache

import (
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/journey-planner/journey"
)

func sampleResults(arrival int) []journey.Result {
	return []journey.Result{{DepartureSeconds: 28800, ArrivalSeconds: arrival}}
}

func TestMemoryCache_PutGet(t *testing.T) {
	c := NewMemoryCache(4, 30*time.Minute)
	c.Put("k1", sampleResults(29400))

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("expected hit for k1")
	}
	if len(got) != 1 || got[0].ArrivalSeconds != 29400 {
		t.Errorf("unexpected results: %+v", got)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, time.Hour)
	c.Put("a", sampleResults(1))
	c.Put("b", sampleResults(2))

	// Touch a so b becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	c.Put("c", sampleResults(3))

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be present")
	}
	if got := c.Stats().Entries; got != 2 {
		t.Errorf("Entries = %d, want 2", got)
	}
}

func TestMemoryCache_ExpiredEntryMissesWithoutEviction(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	c := NewMemoryCache(4, 30*time.Minute)
	c.now = func() time.Time { return now }

	c.Put("k", sampleResults(1))
	now = now.Add(31 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should miss")
	}
	// Expiry is lazy: the slot stays occupied until the next write.
	if got := c.Stats().Entries; got != 1 {
		t.Errorf("Entries = %d, want 1", got)
	}

	// A fresh Put refreshes the timestamp and the entry hits again.
	c.Put("k", sampleResults(2))
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("refreshed entry should hit")
	}
	if got[0].ArrivalSeconds != 2 {
		t.Errorf("ArrivalSeconds = %d, want 2", got[0].ArrivalSeconds)
	}
}

func TestMemoryCache_ZeroCapacityIsInert(t *testing.T) {
	c := NewMemoryCache(0, time.Hour)
	c.Put("k", sampleResults(1))
	if _, ok := c.Get("k"); ok {
		t.Error("zero-capacity cache should never store")
	}
}

func TestMemoryCache_RefreshMovesToFront(t *testing.T) {
	c := NewMemoryCache(2, time.Hour)
	c.Put("a", sampleResults(1))
	c.Put("b", sampleResults(2))
	c.Put("a", sampleResults(10)) // refresh, not insert
	c.Put("c", sampleResults(3))  // must evict b

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted after a was refreshed")
	}
	got, ok := c.Get("a")
	if !ok {
		t.Fatal("a should be present")
	}
	if got[0].ArrivalSeconds != 10 {
		t.Errorf("refresh did not replace results: %+v", got)
	}
}
