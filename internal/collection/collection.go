// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

/*
Package collection implements the id-keyed entity lists that views keep in memory.

A [Collection] is fetched in full (Replace) and then patched in place by two
independent writers: confirmed REST mutations and push events. Patches are
partial: the callback mutates only the fields its writer owns, so the two
writers do not clobber each other. Each entity carries a revision counter
that increases on every write, letting callers detect a concurrent patch.

Entities are only removed by [Collection.Remove]; no patch can delete or insert.
*/
package collection

import (
	"sync"
)

// Collection is an ordered, id-unique list of entities. It is safe for concurrent use.
type Collection[E any] struct {
	mu        sync.RWMutex
	idOf      func(E) int
	items     []E
	index     map[int]int
	revisions map[int]uint64
}

// New creates an empty collection keyed by idOf.
func New[E any](idOf func(E) int) *Collection[E] {
	return &Collection[E]{
		idOf:      idOf,
		index:     make(map[int]int),
		revisions: make(map[int]uint64),
	}
}

// Replace swaps the whole content, keeping input order. Later entries with an
// already-seen id are dropped and their ids returned.
func (c *Collection[E]) Replace(items []E) (dropped []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]E, 0, len(items))
	index := make(map[int]int, len(items))

	for _, item := range items {
		id := c.idOf(item)
		if _, dup := index[id]; dup {
			dropped = append(dropped, id)
			continue
		}
		index[id] = len(next)
		next = append(next, item)
	}

	revisions := make(map[int]uint64, len(next))
	for id := range index {
		revisions[id] = c.revisions[id] + 1
	}

	c.items, c.index, c.revisions = next, index, revisions
	return dropped
}

// Snapshot returns a shallow copy of the entities in order.
func (c *Collection[E]) Snapshot() []E {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the entity with id.
func (c *Collection[E]) Get(id int) (E, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	position, ok := c.index[id]
	if !ok {
		var zero E
		return zero, false
	}
	return c.items[position], true
}

// Patch applies fn to the entity with id. It reports false, and calls
// nothing, when no such entity exists.
func (c *Collection[E]) Patch(id int, fn func(*E)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	position, ok := c.index[id]
	if !ok {
		return false
	}

	c.apply(position, id, fn)
	return true
}

// PatchWhere applies fn to every entity matching pred and returns how many
// were patched. It is used for natural-key matches such as session names.
func (c *Collection[E]) PatchWhere(pred func(E) bool, fn func(*E)) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	patched := 0
	for position := range c.items {
		if !pred(c.items[position]) {
			continue
		}
		c.apply(position, c.idOf(c.items[position]), fn)
		patched++
	}
	return patched
}

// Remove deletes the entity with id, preserving the order of the rest.
func (c *Collection[E]) Remove(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	position, ok := c.index[id]
	if !ok {
		return false
	}

	c.items = append(c.items[:position], c.items[position+1:]...)
	delete(c.index, id)
	delete(c.revisions, id)

	for shifted := position; shifted < len(c.items); shifted++ {
		c.index[c.idOf(c.items[shifted])] = shifted
	}
	return true
}

// Len returns the number of entities.
func (c *Collection[E]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Revision returns the write counter of id, or 0 when absent.
func (c *Collection[E]) Revision(id int) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revisions[id]
}

// apply runs fn on a copy so a panicking callback leaves the stored entity intact.
// A patch that changes the id is discarded.
func (c *Collection[E]) apply(position, id int, fn func(*E)) {
	patched := c.items[position]
	fn(&patched)

	if c.idOf(patched) != id {
		return
	}

	c.items[position] = patched
	c.revisions[id]++
}
