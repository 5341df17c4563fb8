// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replay

import (
	"container/heap"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"
)

// bucketWidth groups expiries to the second to bound the number of buckets.
const bucketWidth = 1_000 // ms

// bucketOf rounds [t] up so a bucket is never evicted before any of its
// items has expired.
func bucketOf(t int64) int64 {
	if r := t % bucketWidth; r != 0 {
		return t - r + bucketWidth
	}
	return t
}

// Item is anything with an identity that stops being acceptable after some
// expiry (unix milliseconds).
type Item interface {
	ID() ids.ID
	Expiry() int64
}

type bucket struct {
	t     int64
	items []ids.ID
}

type bucketHeap struct {
	buckets []*bucket
}

var _ heap.Interface = (*bucketHeap)(nil)

func (bh *bucketHeap) Len() int { return len(bh.buckets) }

func (bh *bucketHeap) Less(i, j int) bool {
	return bh.buckets[i].t < bh.buckets[j].t
}

func (bh *bucketHeap) Swap(i, j int) {
	bh.buckets[i], bh.buckets[j] = bh.buckets[j], bh.buckets[i]
}

func (bh *bucketHeap) Push(x any) {
	bh.buckets = append(bh.buckets, x.(*bucket))
}

func (bh *bucketHeap) Pop() any {
	n := len(bh.buckets)
	b := bh.buckets[n-1]
	bh.buckets[n-1] = nil
	bh.buckets = bh.buckets[:n-1]
	return b
}

// Peek returns the earliest bucket, or nil if there is none.
func (bh *bucketHeap) Peek() *bucket {
	if len(bh.buckets) == 0 {
		return nil
	}
	return bh.buckets[0]
}

// Window remembers the ids of accepted items until they expire. It is safe
// for concurrent use.
type Window[T Item] struct {
	mu sync.RWMutex

	bh    *bucketHeap
	seen  set.Set[ids.ID]
	times map[int64]*bucket
}

func NewWindow[T Item]() *Window[T] {
	return &Window[T]{
		bh:    &bucketHeap{buckets: []*bucket{}},
		seen:  set.Set[ids.ID]{},
		times: make(map[int64]*bucket),
	}
}

// Add records [items]. Ids already in the window are ignored.
func (w *Window[T]) Add(items []T) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, item := range items {
		w.add(item.ID(), bucketOf(item.Expiry()))
	}
}

func (w *Window[T]) add(id ids.ID, t int64) {
	if w.seen.Contains(id) {
		return
	}
	w.seen.Add(id)

	if b, ok := w.times[t]; ok {
		b.items = append(b.items, id)
		return
	}
	b := &bucket{t: t, items: []ids.ID{id}}
	w.times[t] = b
	heap.Push(w.bh, b)
}

// SetMin forgets every item whose bucket ends before [t] and returns their
// ids.
func (w *Window[T]) SetMin(t int64) []ids.ID {
	w.mu.Lock()
	defer w.mu.Unlock()

	evicted := []ids.ID{}
	for {
		b := w.bh.Peek()
		if b == nil || b.t >= t {
			break
		}
		heap.Pop(w.bh)
		for _, id := range b.items {
			w.seen.Remove(id)
			evicted = append(evicted, id)
		}
		delete(w.times, b.t)
	}
	return evicted
}

// Any returns true if any of [items] is in the window.
func (w *Window[T]) Any(items []T) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, item := range items {
		if w.seen.Contains(item.ID()) {
			return true
		}
	}
	return false
}

func (w *Window[T]) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.seen.Len()
}
