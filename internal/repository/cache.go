package repository

import "sync"

// cardNameCache caches the derived owner → card-name list consumed by
// card-member validation and the categorization engine. Owner creation
// invalidates the whole cache; coarse invalidation is fine since owners
// are created rarely and correctness beats precision here.
type cardNameCache struct {
	mu    sync.Mutex
	names []string
	valid bool
}

func (c *cardNameCache) get() ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return nil, false
	}
	return append([]string(nil), c.names...), true
}

func (c *cardNameCache) set(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append([]string(nil), names...)
	c.valid = true
}

func (c *cardNameCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = nil
	c.valid = false
}
