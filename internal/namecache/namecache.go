// Package namecache provides a bounded, TTL-based cache for user display
// names. Realtime notifications resolve the acting user's name on every
// change event, so lookups must not hit the database each time, and the
// cache must not grow without bound in a long-lived server process.
package namecache

import (
	"container/list"
	"sync"
	"time"
)

// Loader resolves a display name for a user ID on cache miss.
type Loader func(userID string) (string, error)

type entry struct {
	userID    string
	name      string
	expiresAt time.Time
}

// Cache is an LRU cache with TTL and size-based eviction.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	load    Loader
}

// New creates a Cache with the given capacity, TTL, and miss loader.
func New(maxSize int, ttl time.Duration, load Loader) *Cache {
	return &Cache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		load:    load,
	}
}

// Get returns the display name for userID, loading it on miss or expiry.
// Load failures return an empty name without caching, so a transient
// database error does not pin a blank name for the TTL.
func (c *Cache) Get(userID string) string {
	c.mu.Lock()
	if elem, ok := c.items[userID]; ok {
		e := elem.Value.(*entry)
		if time.Now().Before(e.expiresAt) {
			c.lru.MoveToFront(elem)
			c.mu.Unlock()
			return e.name
		}
		c.removeElement(elem)
	}
	c.mu.Unlock()

	name, err := c.load(userID)
	if err != nil || name == "" {
		return ""
	}

	c.set(userID, name)
	return name
}

// Len returns the current number of cached names.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *Cache) set(userID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{userID: userID, name: name, expiresAt: time.Now().Add(c.ttl)}

	if elem, ok := c.items[userID]; ok {
		elem.Value = e
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(e)
	c.items[userID] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// removeElement must be called with the lock held.
func (c *Cache) removeElement(elem *list.Element) {
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*entry).userID)
}
