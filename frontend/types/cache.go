package types

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

const defaultCacheSize = 4096

// subtypeKey is ordered: (a, b) and (b, a) are different questions
type subtypeKey struct {
	l, r   uint64
	strict bool
}

// subtypeCache memoises subtype judgements. It holds no information that cannot be
// recomputed, so a nil *subtypeCache is valid and caches nothing.
type subtypeCache struct {
	mu      sync.Mutex
	entries *lru.Cache
}

func newSubtypeCache(size int) *subtypeCache {
	if size <= 0 {
		return nil
	}
	return &subtypeCache{entries: lru.New(size)}
}

func (c *subtypeCache) get(key subtypeKey) (bool, bool) {
	if c == nil {
		return false, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries.Get(key)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (c *subtypeCache) put(key subtypeKey, res bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, res)
}

func (c *subtypeCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
