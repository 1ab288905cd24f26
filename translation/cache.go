package translation

import (
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
)

const DefaultCacheSize = 10_000

type cacheKey struct {
	from string
	to   string
	hash [blake2b.Size256]byte
}

// Cache is a bounded translation cache with first-in-first-out eviction:
// a lookup hit does not refresh an entry's position.
type Cache struct {
	mu       sync.Mutex
	entries  map[cacheKey]string
	order    []cacheKey
	capacity int

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Size     int
	Hits     int64
	Misses   int64
	Failures int64
	HitRate  float64
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		entries:  make(map[cacheKey]string, capacity),
		capacity: capacity,
	}
}

func newCacheKey(text, from, to string) cacheKey {
	return cacheKey{from: from, to: to, hash: blake2b.Sum256([]byte(normalize(text)))}
}

// normalize trims and case-folds text so trivially different inputs share an entry.
func normalize(text string) string {
	return cases.Fold().String(strings.TrimSpace(text))
}

func (c *Cache) Get(text, from, to string) (string, bool) {
	key := newCacheKey(text, from, to)
	c.mu.Lock()
	value, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Put stores a translation. The size check, eviction and insert happen under one lock
// so concurrent misses on the same key cannot grow the cache past its capacity.
func (c *Cache) Put(text, from, to, translated string) {
	key := newCacheKey(text, from, to)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = translated
		return
	}
	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = translated
	c.order = append(c.order, key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	stats := Stats{Size: c.Len(), Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
