package purchase

import (
	"container/list"
	"context"
	"sync"
)

// QuoteCache stores the most recent successfully-fetched quote per key, plus
// the most recent quote overall for best-effort fallback. It is a fallback
// source, not a performance optimization: the orchestrator always refetches and
// reads the cache only when a fetch fails.
//
// Implementations must be safe for concurrent use.
type QuoteCache interface {
	// Get returns the cached quote for the exact key.
	Get(ctx context.Context, key QuoteKey) (*Quote, bool)
	// Latest returns the most recently stored quote for any key.
	Latest(ctx context.Context) (*Quote, bool)
	// Put stores a quote under its key, replacing any previous entry.
	Put(ctx context.Context, q *Quote)
}

// MemoryCache is the default per-session cache. Entries are never evicted;
// growth is bounded by the number of distinct selections a user can produce in
// one purchase flow.
type MemoryCache struct {
	mu     sync.RWMutex
	quotes map[QuoteKey]*Quote
	latest *Quote
}

// NewMemoryCache creates an empty in-memory quote cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{quotes: make(map[QuoteKey]*Quote)}
}

func (c *MemoryCache) Get(_ context.Context, key QuoteKey) (*Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[key]
	return q, ok
}

func (c *MemoryCache) Latest(_ context.Context) (*Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.latest != nil
}

func (c *MemoryCache) Put(_ context.Context, q *Quote) {
	if q == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[q.Key] = q
	c.latest = q
}

// Len returns the number of cached keys.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// BoundedCache is an LRU-evicting quote cache for embedders whose flows
// outlive a single short purchase dialog. The most recent quote survives
// eviction of its keyed entry so the any-key fallback keeps working.
type BoundedCache struct {
	capacity int
	mu       sync.Mutex
	items    map[QuoteKey]*list.Element
	order    *list.List // front = most recently used
	latest   *Quote
}

type boundedEntry struct {
	key   QuoteKey
	quote *Quote
}

// NewBoundedCache creates an LRU quote cache with the given capacity.
// Panics if capacity is not positive.
func NewBoundedCache(capacity int) *BoundedCache {
	if capacity <= 0 {
		panic("purchase: bounded cache capacity must be positive")
	}
	return &BoundedCache{
		capacity: capacity,
		items:    make(map[QuoteKey]*list.Element),
		order:    list.New(),
	}
}

func (c *BoundedCache) Get(_ context.Context, key QuoteKey) (*Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*boundedEntry).quote, true
}

func (c *BoundedCache) Latest(_ context.Context) (*Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, c.latest != nil
}

func (c *BoundedCache) Put(_ context.Context, q *Quote) {
	if q == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = q
	if elem, ok := c.items[q.Key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*boundedEntry).quote = q
		return
	}

	elem := c.order.PushFront(&boundedEntry{key: q.Key, quote: q})
	c.items[q.Key] = elem
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*boundedEntry).key)
		}
	}
}

// Len returns the number of cached keys.
func (c *BoundedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
