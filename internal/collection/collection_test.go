// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package collection_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndrorato/webscrap-ia/internal/collection"
)

type row struct {
	ID     int
	Name   string
	Status string
}

func newRows(items ...row) *collection.Collection[row] {
	c := collection.New(func(r row) int { return r.ID })
	c.Replace(items)
	return c
}

/*
TestReplace_DropsDuplicates keeps the first occurrence of each id.
*/
func TestReplace_DropsDuplicates(t *testing.T) {
	c := collection.New(func(r row) int { return r.ID })

	dropped := c.Replace([]row{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 1, Name: "dup"}})

	assert.Equal(t, []int{1}, dropped)
	assert.Equal(t, []row{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, c.Snapshot())
}

/*
TestPatch_PartialMerge changes only the fields the callback touches.
*/
func TestPatch_PartialMerge(t *testing.T) {
	c := newRows(row{ID: 7, Name: "default", Status: "idle"})

	ok := c.Patch(7, func(r *row) { r.Status = "working" })
	require.True(t, ok)

	got, _ := c.Get(7)
	assert.Equal(t, row{ID: 7, Name: "default", Status: "working"}, got)

	assert.False(t, c.Patch(99, func(r *row) { t.Fatal("must not be called") }))
	assert.Equal(t, 1, c.Len())
}

/*
TestPatch_IDChangeDiscarded refuses callbacks that rewrite the key.
*/
func TestPatch_IDChangeDiscarded(t *testing.T) {
	c := newRows(row{ID: 1, Name: "a"})

	c.Patch(1, func(r *row) { r.ID = 2; r.Name = "moved" })

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, uint64(1), c.Revision(1))
}

/*
TestPatchWhere matches on a natural key.
*/
func TestPatchWhere(t *testing.T) {
	c := newRows(row{ID: 1, Name: "default"}, row{ID: 2, Name: "sales"})

	n := c.PatchWhere(func(r row) bool { return r.Name == "sales" }, func(r *row) { r.Status = "stopped" })
	assert.Equal(t, 1, n)

	n = c.PatchWhere(func(r row) bool { return r.Name == "ghost" }, func(r *row) { r.Status = "x" })
	assert.Equal(t, 0, n)

	assert.Equal(t, []row{{ID: 1, Name: "default"}, {ID: 2, Name: "sales", Status: "stopped"}}, c.Snapshot())
}

/*
TestRemove_ReindexesTail keeps lookups valid after a removal in the middle.
*/
func TestRemove_ReindexesTail(t *testing.T) {
	c := newRows(row{ID: 1}, row{ID: 2}, row{ID: 3})

	require.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))

	got, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, 3, got.ID)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, uint64(0), c.Revision(2))
}

/*
TestRevision_Monotonic bumps on every write, including a refetch.
*/
func TestRevision_Monotonic(t *testing.T) {
	c := newRows(row{ID: 1})
	assert.Equal(t, uint64(1), c.Revision(1))

	c.Patch(1, func(r *row) { r.Status = "a" })
	c.Patch(1, func(r *row) { r.Status = "b" })
	assert.Equal(t, uint64(3), c.Revision(1))

	c.Replace([]row{{ID: 1}})
	assert.Equal(t, uint64(4), c.Revision(1))
}

/*
TestSnapshot_IsCopy ensures callers cannot mutate stored entities.
*/
func TestSnapshot_IsCopy(t *testing.T) {
	c := newRows(row{ID: 1, Name: "a"})

	snapshot := c.Snapshot()
	snapshot[0].Name = "changed"

	got, _ := c.Get(1)
	assert.Equal(t, "a", got.Name)
}

/*
TestConcurrentWriters lets REST confirmations and push events race on disjoint fields.
*/
func TestConcurrentWriters(t *testing.T) {
	type entity struct {
		ID     int
		Status string
		Count  int
	}

	c := collection.New(func(e entity) int { return e.ID })
	c.Replace([]entity{{ID: 1}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Patch(1, func(e *entity) { e.Count++ })
		}()
		go func() {
			defer wg.Done()
			c.Patch(1, func(e *entity) { e.Status = "working" })
		}()
	}
	wg.Wait()

	got, _ := c.Get(1)
	assert.Equal(t, 50, got.Count)
	assert.Equal(t, "working", got.Status)
	assert.Equal(t, uint64(101), c.Revision(1))
}
