// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package cache provides a bounded, TTL-aware LRU cache.
package cache

import (
	"sync"
	"time"
)

// EvictReason tells an OnEvict callback why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity means the entry was the least recently used one when a
	// new entry did not fit.
	EvictCapacity EvictReason = iota
	// EvictExpired means the entry outlived its TTL.
	EvictExpired
	// EvictRemoved means Remove or Clear was called.
	EvictRemoved
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	default:
		return "removed"
	}
}

// Options configures an LRU.
type Options[V any] struct {
	// Capacity is the maximum number of entries. Default 10000.
	Capacity int

	// TTL is the entry lifetime. Default 5 minutes.
	TTL time.Duration

	// Sliding renews an entry's TTL on every Get.
	Sliding bool

	// OnEvict runs after an entry leaves the cache, outside the cache lock.
	OnEvict func(key string, value V, reason EvictReason)

	// Now overrides the clock, for tests.
	Now func() time.Time
}

type entry[V any] struct {
	key       string
	value     V
	prev      *entry[V]
	next      *entry[V]
	expiresAt time.Time
}

type evicted[V any] struct {
	key    string
	value  V
	reason EvictReason
}

// LRU is a thread-safe least recently used cache with lazy TTL expiration.
// Get, Add and Remove are O(1); it keeps a doubly linked list with sentinel
// nodes for ordering and a map for lookups.
type LRU[V any] struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	sliding  bool
	onEvict  func(string, V, EvictReason)
	now      func() time.Time

	items map[string]*entry[V]

	// head.next is the most recently used, tail.prev the least.
	head *entry[V]
	tail *entry[V]

	hits   int64
	misses int64
}

// New creates an LRU.
func New[V any](opts Options[V]) *LRU[V] {
	if opts.Capacity <= 0 {
		opts.Capacity = 10000
	}
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &LRU[V]{
		capacity: opts.Capacity,
		ttl:      opts.TTL,
		sliding:  opts.Sliding,
		onEvict:  opts.OnEvict,
		now:      opts.Now,
		items:    make(map[string]*entry[V], min(opts.Capacity, 1024)),
		head:     &entry[V]{},
		tail:     &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the value for key if present and not expired, and marks it
// most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	var zero V
	var out []evicted[V]

	c.mu.Lock()
	e, ok := c.items[key]
	switch {
	case !ok:
		c.misses++
	case c.now().After(e.expiresAt):
		c.removeEntry(e)
		out = append(out, evicted[V]{e.key, e.value, EvictExpired})
		c.misses++
		ok = false
	default:
		if c.sliding {
			e.expiresAt = c.now().Add(c.ttl)
		}
		c.moveToFront(e)
		c.hits++
	}
	c.mu.Unlock()

	c.notify(out)
	if !ok {
		return zero, false
	}
	return e.value, true
}

// Peek returns the value without updating recency or TTL.
func (c *LRU[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok && !c.now().After(e.expiresAt) {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Add inserts or replaces key. Replacing does not call OnEvict.
func (c *LRU[V]) Add(key string, value V) {
	var out []evicted[V]

	c.mu.Lock()
	expiresAt := c.now().Add(c.ttl)
	if e, ok := c.items[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		c.mu.Unlock()
		return
	}

	e := &entry[V]{key: key, value: value, expiresAt: expiresAt}
	c.addToFront(e)
	c.items[key] = e
	for len(c.items) > c.capacity {
		oldest := c.tail.prev
		c.removeEntry(oldest)
		out = append(out, evicted[V]{oldest.key, oldest.value, EvictCapacity})
	}
	c.mu.Unlock()

	c.notify(out)
}

// Remove deletes key and reports whether it was present.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	e, ok := c.items[key]
	if ok {
		c.removeEntry(e)
	}
	c.mu.Unlock()

	if ok {
		c.notify([]evicted[V]{{e.key, e.value, EvictRemoved}})
	}
	return ok
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Values returns the live values from most to least recently used.
func (c *LRU[V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]V, 0, len(c.items))
	for e := c.head.next; e != c.tail; e = e.next {
		if !now.After(e.expiresAt) {
			out = append(out, e.value)
		}
	}
	return out
}

// Clear removes every entry.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	out := make([]evicted[V], 0, len(c.items))
	for e := c.head.next; e != c.tail; e = e.next {
		out = append(out, evicted[V]{e.key, e.value, EvictRemoved})
	}
	c.items = make(map[string]*entry[V], min(c.capacity, 1024))
	c.head.next = c.tail
	c.tail.prev = c.head
	c.mu.Unlock()

	c.notify(out)
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *LRU[V]) CleanupExpired() int {
	var out []evicted[V]

	c.mu.Lock()
	now := c.now()
	for e := c.tail.prev; e != c.head; {
		prev := e.prev
		if now.After(e.expiresAt) {
			c.removeEntry(e)
			out = append(out, evicted[V]{e.key, e.value, EvictExpired})
		}
		e = prev
	}
	c.mu.Unlock()

	c.notify(out)
	return len(out)
}

// Stats returns hit and miss counters and the current size.
func (c *LRU[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

func (c *LRU[V]) notify(out []evicted[V]) {
	if c.onEvict == nil {
		return
	}
	for _, ev := range out {
		c.onEvict(ev.key, ev.value, ev.reason)
	}
}

// List helpers; the lock must be held.

func (c *LRU[V]) addToFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRU[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *LRU[V]) removeEntry(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}
