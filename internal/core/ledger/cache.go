package ledger

import (
	"sync/atomic"

	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of entries kept when no size is configured.
const DefaultCacheSize = 4096

// EntryCache keeps recently read ledger entries in memory
type EntryCache struct {
	entries *lru.Cache[keylet.Keylet, []byte]

	// Metrics
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewEntryCache creates a new entry cache
func NewEntryCache(size int) (*EntryCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[keylet.Keylet, []byte](size)
	if err != nil {
		return nil, err
	}
	return &EntryCache{entries: entries}, nil
}

// Get retrieves an entry from cache
func (c *EntryCache) Get(k keylet.Keylet) ([]byte, bool) {
	data, found := c.entries.Get(k)
	if found {
		c.hits.Add(1)
		return data, true
	}
	c.misses.Add(1)
	return nil, false
}

// Add stores an entry
func (c *EntryCache) Add(k keylet.Keylet, data []byte) {
	c.entries.Add(k, data)
}

// Remove evicts an entry
func (c *EntryCache) Remove(k keylet.Keylet) {
	c.entries.Remove(k)
}

// Purge empties the cache
func (c *EntryCache) Purge() {
	c.entries.Purge()
}

// Stats returns hit and miss counts
func (c *EntryCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
