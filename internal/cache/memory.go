package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	entry     Entry
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache is the in-process backing store. Expiry is checked lazily on
// read; when the entry count grows past capacity the evictBatch entries
// with the oldest write timestamps are dropped.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	capacity   int
	evictBatch int

	hits   int64
	misses int64
	sets   int64

	now func() time.Time
}

func NewMemory(defaultTTL time.Duration, capacity, evictBatch int) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if capacity <= 0 {
		capacity = 1000
	}
	if evictBatch <= 0 || evictBatch > capacity {
		evictBatch = capacity / 10
		if evictBatch == 0 {
			evictBatch = 1
		}
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		defaultTTL: defaultTTL,
		capacity:   capacity,
		evictBatch: evictBatch,
		now:        time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, question, userID string) (*Entry, bool) {
	key := Key(question, userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.entries[key]
	if ok && c.now().Before(stored.expiresAt) {
		c.hits++
		entry := stored.entry
		return &entry, true
	}
	if ok {
		delete(c.entries, key)
	}
	c.misses++
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, question, userID string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	key := Key(question, userID)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = memoryEntry{
		entry:     entry,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
	c.sets++

	if len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, question, userID string) error {
	key := Key(question, userID)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildStats(c.hits, c.misses, c.sets, "memory")
}

// evictOldestLocked removes the evictBatch oldest-written entries. Eviction
// is by write time, not access time.
func (c *MemoryCache) evictOldestLocked() {
	type keyed struct {
		key      string
		storedAt time.Time
	}
	all := make([]keyed, 0, len(c.entries))
	for k, v := range c.entries {
		all = append(all, keyed{key: k, storedAt: v.storedAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].storedAt.Before(all[j].storedAt) })

	n := c.evictBatch
	if n > len(all) {
		n = len(all)
	}
	for _, item := range all[:n] {
		delete(c.entries, item.key)
	}
}

func buildStats(hits, misses, sets int64, backend string) Stats {
	total := hits + misses
	var rate float64
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}
	return Stats{
		Hits:           hits,
		Misses:         misses,
		Sets:           sets,
		TotalRequests:  total,
		HitRatePercent: rate,
		Backend:        backend,
	}
}
