package pdf

import (
	"container/list"
	"sync"
	"time"
)

// CacheStats reports page cache effectiveness.
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Documents int     `json:"documents"`
	Bytes     int64   `json:"bytes"`
	HitRate   float64 `json:"hit_rate"`
}

type cacheKey struct {
	path    string
	size    int64
	modTime time.Time
}

type cacheEntry struct {
	key  cacheKey
	doc  *Document
	size int64
}

// PageCache keeps recently loaded documents, bounded by the total bytes of
// their text, with least-recently-used eviction. A rewritten file gets a
// new key because its size or modification time changes.
type PageCache struct {
	mu       sync.Mutex
	maxBytes int64
	bytes    int64
	lru      *list.List
	entries  map[cacheKey]*list.Element
	stats    CacheStats
}

// NewPageCache returns nil when maxBytes is not positive; a nil cache
// stores nothing.
func NewPageCache(maxBytes int64) *PageCache {
	if maxBytes <= 0 {
		return nil
	}
	return &PageCache{
		maxBytes: maxBytes,
		lru:      list.New(),
		entries:  make(map[cacheKey]*list.Element),
	}
}

func (c *PageCache) get(key cacheKey) (*Document, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		c.stats.Hits++
		doc := *el.Value.(*cacheEntry).doc
		return &doc, true
	}
	c.stats.Misses++
	return nil, false
}

func (c *PageCache) put(key cacheKey, doc *Document) {
	if c == nil {
		return
	}
	size := int64(0)
	for _, p := range doc.Pages {
		size += int64(len(p))
	}
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		return
	}
	for c.bytes+size > c.maxBytes {
		c.evictOldest()
	}
	stored := *doc
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, doc: &stored, size: size})
	c.bytes += size
}

func (c *PageCache) evictOldest() {
	el := c.lru.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*cacheEntry)
	c.lru.Remove(el)
	delete(c.entries, entry.key)
	c.bytes -= entry.size
	c.stats.Evictions++
}

// Stats returns a snapshot of the cache counters.
func (c *PageCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Documents = c.lru.Len()
	s.Bytes = c.bytes
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
