package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func newTestMemory(capacity, evictBatch int) (*MemoryCache, *time.Time) {
	c := NewMemory(time.Hour, capacity, evictBatch)
	current := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }
	return c, &current
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(1000, 100)

	err := c.Set(ctx, "MTS PDRN ราคาเท่าไหร่คะ", "", Entry{Response: "เริ่มต้น 3,500 บาทค่ะ"}, 0)
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}

	entry, ok := c.Get(ctx, "MTS PDRN ราคาเท่าไหร่คะ", "")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if entry.Response != "เริ่มต้น 3,500 บาทค่ะ" {
		t.Errorf("unexpected response: %q", entry.Response)
	}
}

func TestMemoryCache_NormalizationMatchesPoliteVariants(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(1000, 100)

	c.Set(ctx, "MTS PDRN ราคาเท่าไหร่คะ", "", Entry{Response: "3,500 บาท"}, 0)
	if _, ok := c.Get(ctx, "mts pdrn ราคาเท่าไหร่ค่ะ", ""); !ok {
		t.Fatalf("expected hit for polite-particle variant")
	}
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c, current := newTestMemory(1000, 100)

	c.Set(ctx, "โปรโมชั่นเดือนนี้", "", Entry{Response: "โปร Sculptra"}, time.Minute)

	if _, ok := c.Get(ctx, "โปรโมชั่นเดือนนี้", ""); !ok {
		t.Fatalf("expected hit before expiry")
	}

	*current = current.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "โปรโมชั่นเดือนนี้", ""); ok {
		t.Fatalf("expected miss after ttl elapsed")
	}
}

func TestMemoryCache_UserScopedKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(1000, 100)

	c.Set(ctx, "จองคิว", "user-a", Entry{Response: "a"}, 0)
	if _, ok := c.Get(ctx, "จองคิว", "user-b"); ok {
		t.Fatalf("user-scoped entry leaked across users")
	}
	if _, ok := c.Get(ctx, "จองคิว", "user-a"); !ok {
		t.Fatalf("expected hit for owning user")
	}
}

func TestMemoryCache_EvictsOldestWrites(t *testing.T) {
	ctx := context.Background()
	c, current := newTestMemory(10, 3)

	for i := 0; i < 11; i++ {
		*current = current.Add(time.Second)
		c.Set(ctx, fmt.Sprintf("question-%d", i), "", Entry{Response: "r"}, time.Hour)
	}

	if got := len(c.entries); got > 10 {
		t.Fatalf("store exceeded capacity: %d entries", got)
	}
	// The 3 oldest writes (0..2) were evicted; the most recent survive.
	for i := 0; i < 3; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("question-%d", i), ""); ok {
			t.Errorf("expected question-%d evicted", i)
		}
	}
	for i := 8; i <= 10; i++ {
		if _, ok := c.Get(ctx, fmt.Sprintf("question-%d", i), ""); !ok {
			t.Errorf("expected question-%d retained", i)
		}
	}
}

func TestMemoryCache_InvalidateAndClear(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(1000, 100)

	c.Set(ctx, "q1", "", Entry{Response: "r1"}, 0)
	c.Set(ctx, "q2", "", Entry{Response: "r2"}, 0)

	c.Invalidate(ctx, "q1", "")
	if _, ok := c.Get(ctx, "q1", ""); ok {
		t.Fatalf("expected q1 invalidated")
	}

	c.Clear(ctx)
	if _, ok := c.Get(ctx, "q2", ""); ok {
		t.Fatalf("expected empty cache after clear")
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestMemory(1000, 100)

	c.Get(ctx, "missing", "")
	c.Set(ctx, "q", "", Entry{Response: "r"}, 0)
	c.Get(ctx, "q", "")

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Sets != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.HitRatePercent != 50 {
		t.Errorf("expected 50%% hit rate, got %v", stats.HitRatePercent)
	}
	if stats.Backend != "memory" {
		t.Errorf("unexpected backend: %s", stats.Backend)
	}
}

func TestKey_StableAndFixedWidth(t *testing.T) {
	a := Key("ราคา Filler คะ", "")
	b := Key("  ราคา filler ค่ะ ", "")
	if a != b {
		t.Fatalf("normalized variants should share a key: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("expected 32-char md5 hex key, got %d", len(a))
	}
}
