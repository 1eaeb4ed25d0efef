package pdf

import (
	"testing"
	"time"
)

func cachedDoc(text string) *Document {
	return &Document{Pages: []string{text}, PageCount: 1}
}

func TestPageCache_HitAndMiss(t *testing.T) {
	c := NewPageCache(1024)
	key := cacheKey{path: "/a.pdf", size: 10, modTime: time.Unix(1, 0)}

	if _, ok := c.get(key); ok {
		t.Fatal("empty cache should miss")
	}
	c.put(key, cachedDoc("hello"))

	got, ok := c.get(key)
	if !ok {
		t.Fatal("expected a hit after put")
	}
	if got.Pages[0] != "hello" {
		t.Errorf("cached page = %q, want hello", got.Pages[0])
	}

	changed := key
	changed.modTime = time.Unix(2, 0)
	if _, ok := c.get(changed); ok {
		t.Error("a modified file should miss")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Documents != 1 || s.Bytes != 5 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestPageCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewPageCache(10)
	a := cacheKey{path: "/a"}
	b := cacheKey{path: "/b"}
	d := cacheKey{path: "/d"}

	c.put(a, cachedDoc("aaaa"))
	c.put(b, cachedDoc("bbbb"))
	c.get(a)
	c.put(d, cachedDoc("dddd"))

	if _, ok := c.get(b); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.get(a); !ok {
		t.Error("a was used recently and should remain")
	}
	if s := c.Stats(); s.Evictions != 1 || s.Bytes != 8 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestPageCache_SkipsOversizedDocuments(t *testing.T) {
	c := NewPageCache(4)
	c.put(cacheKey{path: "/big"}, cachedDoc("too large"))
	if s := c.Stats(); s.Documents != 0 {
		t.Errorf("oversized document should not be cached: %+v", s)
	}
}

func TestPageCache_Disabled(t *testing.T) {
	c := NewPageCache(0)
	if c != nil {
		t.Fatal("non-positive size should disable the cache")
	}
	c.put(cacheKey{path: "/a"}, cachedDoc("x"))
	if _, ok := c.get(cacheKey{path: "/a"}); ok {
		t.Error("disabled cache should never hit")
	}
	if s := c.Stats(); s != (CacheStats{}) {
		t.Errorf("disabled cache stats = %+v", s)
	}
}
