package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/journey-planner/journey"
)

// MemoryStats is a read-only snapshot of the memory tier.
type MemoryStats struct {
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}

type memoryEntry struct {
	key      string
	results  []journey.Result
	storedAt time.Time
}

// MemoryCache is the in-process tier: entry-count-bounded LRU with an
// independent wall-clock validity window. An entry past its window is
// reported as a miss but left in place; the next write refreshes it. All
// operations are synchronous and allocation-light.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	ll       *list.List // front = most recently used
	entries  map[string]*list.Element
	hits     uint64
	misses   uint64
	now      func() time.Time
}

// NewMemoryCache creates a tier holding at most capacity entries, each
// valid for ttl after insertion.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		entries:  make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the cached results for key. Expired-by-clock entries miss
// regardless of their LRU position.
func (c *MemoryCache) Get(key string) ([]journey.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		c.misses++
		return nil, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return entry.results, true
}

// Put inserts or refreshes an entry, resetting its insertion timestamp, and
// evicts the least recently used entry once over capacity.
func (c *MemoryCache) Put(key string, results []journey.Result) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.results = results
		entry.storedAt = c.now()
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&memoryEntry{key: key, results: results, storedAt: c.now()})
	c.entries[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).key)
		}
	}
}

// Stats returns a snapshot of entry count and hit/miss counters.
func (c *MemoryCache) Stats() MemoryStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MemoryStats{
		Entries:  c.ll.Len(),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
