package utils

import (
	"testing"
	"time"
)

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewTTLCacheWithClock(10*time.Minute, clock)

	cache.Set("k", "v")

	got, ok := cache.Get("k")
	if !ok || got.(string) != "v" {
		t.Fatalf("expected fresh hit, got %v %v", got, ok)
	}

	now = now.Add(9 * time.Minute)
	if _, ok := cache.Get("k"); !ok {
		t.Fatalf("expected hit just inside the lifetime")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expected stale entry to miss")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected stale entry evicted, len=%d", cache.Len())
	}
}

func TestTTLCacheSetRefreshesLifetime(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := NewTTLCacheWithClock(10*time.Minute, clock)

	cache.Set("k", 1)
	now = now.Add(8 * time.Minute)
	cache.Set("k", 2)
	now = now.Add(8 * time.Minute)

	got, ok := cache.Get("k")
	if !ok {
		t.Fatalf("expected re-stored entry to still be fresh")
	}
	if got.(int) != 2 {
		t.Fatalf("expected latest value, got %v", got)
	}
}

func TestTTLCacheMissingKey(t *testing.T) {
	cache := NewTTLCache(time.Minute)
	if _, ok := cache.Get("absent"); ok {
		t.Fatalf("expected miss for absent key")
	}
}
