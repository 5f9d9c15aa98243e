// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package lru defines a bounded least-recently-used cache keyed by a
// comparable type. It backs the registry's metadata cache.
package lru

import "container/list"

// Cache is a bounded LRU cache.
// It is not safe for concurrent use.
type Cache[K comparable, V any] struct {
	cap int
	ll  *list.List
	m   map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key K
	val V
}

// New creates a cache that holds at most capacity entries.
// It panics if capacity is not greater than 0.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		panic("lru: capacity <= 0")
	}
	return &Cache[K, V]{
		cap: capacity,
		ll:  list.New(),
		m:   make(map[K]*list.Element, capacity),
	}
}

// Get returns the value stored under key and marks it most
// recently used.
func (c *Cache[K, V]) Get(key K) (v V, ok bool) {
	e, ok := c.m[key]
	if !ok {
		return
	}
	c.ll.MoveToFront(e)
	return e.Value.(*entry[K, V]).val, true
}

// Put stores val under key, evicting the least recently used entry
// if the cache is full.
func (c *Cache[K, V]) Put(key K, val V) {
	if e, ok := c.m[key]; ok {
		c.ll.MoveToFront(e)
		e.Value.(*entry[K, V]).val = val
		return
	}
	if c.ll.Len() >= c.cap {
		back := c.ll.Back()
		delete(c.m, back.Value.(*entry[K, V]).key)
		c.ll.Remove(back)
	}
	c.m[key] = c.ll.PushFront(&entry[K, V]{key, val})
}

// Remove drops the entry stored under key, if any.
func (c *Cache[K, V]) Remove(key K) {
	if e, ok := c.m[key]; ok {
		delete(c.m, key)
		c.ll.Remove(e)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return c.ll.Len() }
