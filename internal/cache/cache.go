// Package cache implements the pipeline's input->output memoization cache
// (§5/§6): a single-writer region, touched only at call exit, bounded by a
// fixed total byte ceiling rather than an entry count. Entries are keyed on
// the exact input text plus the settings generation that produced the
// output, so a configuration change invalidates every prior entry without
// an explicit sweep.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultMaxBytes is the memoization cache's default byte ceiling.
const DefaultMaxBytes = 8 * 1024 * 1024

// MaxStorableBytes is the combined (input+output) size above which an entry
// is never stored, even if the cache has room (§4.J).
const MaxStorableBytes = 2 * 1024 * 1024

type entry struct {
	key   string
	value string
	size  int
}

// Cache is a byte-bounded LRU keyed on (input text, settings generation). It
// wraps groupcache's lru.Cache, which orders by recency but evicts by entry
// count; this type layers a running byte total on top so eviction instead
// tracks MaxBytes.
type Cache struct {
	mu       sync.Mutex
	inner    *lru.Cache
	maxBytes int
	curBytes int
}

// New creates a memoization cache bounded by maxBytes (0 or negative means
// DefaultMaxBytes).
func New(maxBytes int) *Cache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	c := &Cache{maxBytes: maxBytes}
	c.inner = lru.New(0) // unbounded entry count; byte ceiling is enforced here
	c.inner.OnEvicted = func(key lru.Key, value interface{}) {
		c.curBytes -= value.(*entry).size
	}
	return c
}

// Key derives the cache key for input text at a given settings generation.
func Key(input string, generation int) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:]) + ":" + strconv.Itoa(generation)
}

// Get returns the memoized output for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.inner.Get(lru.Key(key))
	if !ok {
		return "", false
	}
	return v.(*entry).value, true
}

// Put stores output for key iff len(input)+len(output) <= MaxStorableBytes.
// Oversized combined inputs are silently skipped per the driver's guard
// rail; the entry-size check happens here so every caller gets it for free.
func (c *Cache) Put(key, input, output string) {
	combined := len(input) + len(output)
	if combined > MaxStorableBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{key: key, value: output, size: combined}
	c.inner.Add(lru.Key(key), e)
	c.curBytes += combined

	for c.curBytes > c.maxBytes && c.inner.Len() > 0 {
		c.inner.RemoveOldest()
	}
}

// Clear empties the cache, used on catastrophic pipeline failure and
// whenever settings are replaced (generation bump makes old keys
// unreachable anyway, but Clear also reclaims their memory immediately).
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inner.Clear()
	c.curBytes = 0
}

// Len reports the current entry count, for diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inner.Len()
}

// Bytes reports the current total byte usage, for diagnostics and the
// cache-info CLI command.
func (c *Cache) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curBytes
}
