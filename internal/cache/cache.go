package cache

import (
	"fmt"
	"sort"
)

// Key identifies a derived result: the transform with its parameters, and
// the fingerprint of the input it was computed from.
type Key struct {
	Transform   string
	Fingerprint string
}

func (k Key) String() string {
	fp := k.Fingerprint
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fmt.Sprintf("%s@%s", k.Transform, fp)
}

// Sizes records input and output row counts so callers can report deltas on
// a hit without recomputing.
type Sizes struct {
	Original int
	Result   int
}

type Entry struct {
	Key   Key
	Value any
	Sizes Sizes
}

// Stats counts lookups since the last Reset.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache holds at most one live entry per transform. It is owned by a single
// session and is not safe for concurrent use.
type Cache struct {
	// Map transform to its current entry; the entry's fingerprint is the
	// input it is valid for.
	entries map[string]Entry
	hits    int
	misses  int
}

func New() *Cache {
	return &Cache{entries: map[string]Entry{}}
}

// Get returns the entry for key when one exists for the same transform and
// the same input fingerprint.
func (c *Cache) Get(key Key) (Entry, bool) {
	e, ok := c.entries[key.Transform]
	if !ok || e.Key.Fingerprint != key.Fingerprint {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	return e, true
}

// Put stores value for key, replacing any entry of the same transform.
func (c *Cache) Put(key Key, value any, sizes Sizes) {
	c.entries[key.Transform] = Entry{Key: key, Value: value, Sizes: sizes}
}

// Invalidate drops every entry not computed from the given fingerprint and
// returns how many were dropped.
func (c *Cache) Invalidate(fingerprint string) int {
	n := 0
	for t, e := range c.entries {
		if e.Key.Fingerprint != fingerprint {
			delete(c.entries, t)
			n++
		}
	}
	return n
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	c.entries = map[string]Entry{}
	c.hits, c.misses = 0, 0
}

func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Keys lists live keys ordered by transform.
func (c *Cache) Keys() []Key {
	out := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transform < out[j].Transform })
	return out
}

// Memo returns the cached value for key or computes and stores it. hit
// reports whether the value came from the cache. Errors are never cached.
func Memo[T any](c *Cache, key Key, compute func() (T, Sizes, error)) (T, bool, error) {
	if e, ok := c.Get(key); ok {
		if v, ok := e.Value.(T); ok {
			return v, true, nil
		}
	}
	v, sizes, err := compute()
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.Put(key, v, sizes)
	return v, false, nil
}
