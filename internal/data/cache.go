package data

import (
	"sync"
	"time"

	"powerview/internal/intervalgroup"

	"github.com/google/uuid"
)

// CacheEntry is one prepared result kept for later retrieval.
type CacheEntry struct {
	Prepared  *intervalgroup.Prepared
	ExpiresAt time.Time
}

// ResultCache keeps prepared results in memory under generated ids so clients can
// fetch a result again without re-sending the readings.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached result if available and not expired
func (c *ResultCache) Get(id string) (*intervalgroup.Prepared, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[id]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Prepared, true
}

// Put stores a result and returns its id.
func (c *ResultCache) Put(p *intervalgroup.Prepared) string {
	id := uuid.NewString()
	if c == nil {
		return id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[id] = &CacheEntry{
		Prepared:  p,
		ExpiresAt: c.now().Add(c.ttl),
	}
	return id
}

// Len returns the number of stored entries, expired or not.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Evict removes expired entries.
func (c *ResultCache) Evict() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, id)
		}
	}
}

// RunEviction evicts expired entries every interval until stop is closed.
// A non-positive interval disables eviction.
func (c *ResultCache) RunEviction(every time.Duration, stop <-chan struct{}) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Evict()
		case <-stop:
			return
		}
	}
}
