// Package scorecache provides a bounded in-memory cache of computed
// batch scores. Identical batches are common when monitors resubmit
// unchanged observations, so the service can answer them without
// re-running the engine. Keys embed the catalogue generation, which
// makes every entry stale the moment the catalogue is swapped.
package scorecache

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ewscore/ewscore/internal/domain/model"
)

// Cache stores computed scores keyed by canonical batch key.
type Cache interface {
	// Lookup returns the cached score for key and whether it was present.
	Lookup(ctx context.Context, key string) (int, bool)

	// Store records the score for key, evicting the oldest entry when the
	// cache is full.
	Store(ctx context.Context, key string, score int)

	Size() int64
}

// Key builds the canonical cache key for a batch under a catalogue
// generation. Type names are folded and sorted so that submission order
// and casing do not split identical batches across entries.
func Key(generation uint64, batch model.Batch) string {
	pairs := make([]string, len(batch))
	for i, m := range batch {
		pairs[i] = strings.ToLower(strings.TrimSpace(m.Type)) + "=" + strconv.Itoa(m.Value)
	}
	sort.Strings(pairs)

	var b strings.Builder
	b.WriteString("g")
	b.WriteString(strconv.FormatUint(generation, 10))
	for _, p := range pairs {
		b.WriteByte('|')
		b.WriteString(p)
	}
	return b.String()
}

// entry is a single cached score in the eviction list.
type entry struct {
	key   string
	score int
	next  *entry
}

// reset clears the entry state for reuse
func (e *entry) reset() {
	e.key = ""
	e.score = 0
	e.next = nil
}

// inMemoryCache implements Cache with a map plus a singly linked list
// ordered newest-first. Bounded mode (maxEntries > 0) evicts the tail;
// unbounded mode (maxEntries <= 0) never evicts.
type inMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry
	maxEntries int
	size       atomic.Int64
	entryPool  sync.Pool
}

// NewInMemoryCache creates a new in-memory score cache with
// configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxEntries: 50000, // default capacity
	}

	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[string]*entry)

	if c.maxEntries > 0 {
		c.entryPool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}

	return c
}

// Lookup returns the cached score for key and whether it was present.
func (c *inMemoryCache) Lookup(_ context.Context, key string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return e.score, true
}

// Store records the score for key. Storing an existing key updates the
// score in place without touching the eviction order.
func (c *inMemoryCache) Store(_ context.Context, key string, score int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.score = score
		return
	}

	if c.maxEntries > 0 {
		if len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}

		e := c.entryPool.Get().(*entry)
		e.key = key
		e.score = score
		e.next = c.head

		c.head = e
		c.entries[key] = e
	} else {
		c.entries[key] = &entry{key: key, score: score}
	}
	c.size.Add(1)
}

// evictOldest removes the tail of the list from the map.
// Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if len(c.entries) == 0 || c.head == nil {
		return
	}

	current := c.head
	if current.next == nil {
		delete(c.entries, current.key)
		current.reset()
		c.entryPool.Put(current)
		c.head = nil
		c.size.Add(-1)
		return
	}

	var prev *entry
	for current.next != nil {
		prev = current
		current = current.next
	}

	prev.next = nil
	delete(c.entries, current.key)
	current.reset()
	c.entryPool.Put(current)
	c.size.Add(-1)
}

// Size returns the current number of cached entries.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
