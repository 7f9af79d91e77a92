package auction

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const snapshotKey = "auctions:all"

// Cache holds the latest full auction snapshot.
//
// Every Invalidate bumps a generation. A refresh that read the generation
// before an invalidation cannot store its now stale result.
type Cache struct {
	mu    sync.Mutex
	gen   uint64
	store *cache.Cache
	ttl   time.Duration
}

// NewCache creates a snapshot cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{store: cache.New(ttl, 2*ttl), ttl: ttl}
}

// Snapshot returns a copy of the cached auctions, if present.
func (c *Cache) Snapshot() ([]Auction, bool) {
	v, ok := c.store.Get(snapshotKey)
	if !ok {
		return nil, false
	}
	list := v.([]Auction)
	out := make([]Auction, len(list))
	copy(out, list)
	return out, true
}

// Generation returns the current invalidation generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *Cache) Store(list []Auction) {
	c.store.Set(snapshotKey, list, c.ttl)
}

// StoreIfCurrent stores list only if no Invalidate happened since gen was read.
func (c *Cache) StoreIfCurrent(list []Auction, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.store.Set(snapshotKey, list, c.ttl)
	return true
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.store.Delete(snapshotKey)
}
