package narrative

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ayurai/ayurai/internal/llm"
)

const (
	defaultCacheSize = 64
	defaultCacheTTL  = 30 * time.Minute
)

type cacheEntry struct {
	content  string
	storedAt time.Time
}

// responseCache holds generated text keyed by purpose and prompt. Entries
// older than ttl are treated as misses.
type responseCache struct {
	lru *lru.Cache[string, cacheEntry]
	ttl time.Duration
	now func() time.Time
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		// lru.New only errors on non-positive size, guarded above.
		panic(err)
	}
	return &responseCache{lru: c, ttl: ttl, now: time.Now}
}

func (c *responseCache) get(key string) (string, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return "", false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		c.lru.Remove(key)
		return "", false
	}
	return e.content, true
}

func (c *responseCache) put(key, content string) {
	c.lru.Add(key, cacheEntry{content: content, storedAt: c.now()})
}

func (c *responseCache) remove(key string) {
	c.lru.Remove(key)
}

func (c *responseCache) purge() {
	c.lru.Purge()
}

// cacheKey hashes everything that determines the model's answer.
func cacheKey(purpose string, req llm.Request) string {
	h := sha256.New()
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	for _, m := range req.Messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	if req.Schema != nil {
		h.Write([]byte{0})
		h.Write([]byte(req.Schema.Name))
	}
	return purpose + ":" + hex.EncodeToString(h.Sum(nil))
}
