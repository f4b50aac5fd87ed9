package redirect

import (
	"sync"
	"time"

	"kompi/internal/engine/links"
)

type cachedLink struct {
	link     links.Link
	cachedAt time.Time
}

// LinkCache keeps recently resolved links by short code. A zero or negative
// TTL disables it.
type LinkCache struct {
	store sync.Map // map[code]*cachedLink
	ttl   time.Duration
}

func NewLinkCache(ttl time.Duration) *LinkCache {
	return &LinkCache{
		ttl: ttl,
	}
}

func (c *LinkCache) Get(code string) (*links.Link, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	val, ok := c.store.Load(code)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedLink)
	if time.Since(cached.cachedAt) > c.ttl {
		c.store.Delete(code)
		return nil, false
	}

	link := cached.link
	return &link, true
}

func (c *LinkCache) Set(link *links.Link) {
	if c.ttl <= 0 || link == nil {
		return
	}
	c.store.Store(link.Code, &cachedLink{
		link:     *link,
		cachedAt: time.Now(),
	})
}

func (c *LinkCache) Delete(code string) {
	c.store.Delete(code)
}

// Sweep drops expired entries and reports how many were removed.
func (c *LinkCache) Sweep() int {
	removed := 0
	now := time.Now()
	c.store.Range(func(key, value interface{}) bool {
		if now.Sub(value.(*cachedLink).cachedAt) > c.ttl {
			c.store.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
