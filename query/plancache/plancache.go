// Package plancache caches compiled statements so hot query shapes skip
// recompilation.
package plancache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/queryforge/query/sqlgen"
)

// Stats reports cache effectiveness.
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
}

// Cache is an LRU cache of compiled statements with optional expiry.
// Entries are keyed by a digest of the query configuration and mode, so two
// structurally identical configurations share one entry.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxSize    int
	defaultTTL time.Duration
	head       *entry
	tail       *entry
	stats      Stats
}

type entry struct {
	key       string
	plan      sqlgen.Query
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// New creates a cache holding at most maxSize plans. A zero defaultTTL means
// entries never expire.
func New(maxSize int, defaultTTL time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]*entry),
		maxSize:    maxSize,
		defaultTTL: defaultTTL,
		stats:      Stats{MaxSize: maxSize},
	}
}

// Key derives the cache key for a configuration and mode.
func Key(cfg *sqlgen.QueryConfig, mode sqlgen.Mode) string {
	raw, err := json.Marshal(cfg)
	if err != nil {
		// Configurations are plain data; marshal failure means an
		// unhashable bind value sneaked in. Fall back to a unique key
		// so the entry is simply never shared.
		raw = []byte(fmt.Sprintf("%p", cfg))
	}
	sum := sha256.Sum256(append(raw, byte(mode)))
	return hex.EncodeToString(sum[:16])
}

// Get returns the cached plan for key, if present and not expired.
func (c *Cache) Get(key string) (sqlgen.Query, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return sqlgen.Query{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.unlink(e)
		c.stats.Misses++
		return sqlgen.Query{}, false
	}

	c.moveToFront(e)
	c.stats.Hits++
	return e.plan, true
}

// Put stores a compiled plan under key using the default TTL.
func (c *Cache) Put(key string, plan sqlgen.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.defaultTTL > 0 {
		expiresAt = time.Now().Add(c.defaultTTL)
	}

	if e, ok := c.entries[key]; ok {
		e.plan = plan
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	if len(c.entries) >= c.maxSize {
		if c.tail != nil {
			c.unlink(c.tail)
			c.stats.Evictions++
		}
	}

	e := &entry{key: key, plan: plan, expiresAt: expiresAt}
	c.pushFront(e)
	c.entries[key] = e
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		c.unlink(e)
	}
}

// Clear drops every entry and resets counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.head = nil
	c.tail = nil
	c.stats = Stats{MaxSize: c.maxSize}
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}

func (c *Cache) pushFront(e *entry) {
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *Cache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.detach(e)
	c.pushFront(e)
}

func (c *Cache) detach(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (c *Cache) unlink(e *entry) {
	c.detach(e)
	delete(c.entries, e.key)
}
