package suggest

import (
	"container/list"
	"sync"
)

// cache is an LRU of search results keyed by normalized query.
type cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	query   string
	results []match
}

func newCache(maxSize int) *cache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// get returns a copy of the cached results for query.
func (c *cache) get(query string) ([]match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[query]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry) //nolint:errcheck // list only contains *cacheEntry
	return append([]match(nil), entry.results...), true
}

func (c *cache) set(query string, results []match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	results = append([]match(nil), results...)
	if elem, ok := c.items[query]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).results = results //nolint:errcheck // list only contains *cacheEntry
		return
	}
	if c.lru.Len() >= c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).query) //nolint:errcheck // list only contains *cacheEntry
		}
	}
	c.items[query] = c.lru.PushFront(&cacheEntry{query: query, results: results})
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
