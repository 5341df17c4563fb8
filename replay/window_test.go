// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replay

import (
	"container/heap"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	id ids.ID
	t  int64
}

func (i *testItem) ID() ids.ID    { return i.id }
func (i *testItem) Expiry() int64 { return i.t }

func TestBucketOf(t *testing.T) {
	tests := []struct {
		name string
		t    int64
		want int64
	}{
		{name: "aligned", t: 2_000, want: 2_000},
		{name: "rounds up", t: 2_001, want: 3_000},
		{name: "just below", t: 2_999, want: 3_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, bucketOf(tt.t))
		})
	}
}

func TestBucketHeapOrder(t *testing.T) {
	require := require.New(t)
	first := &bucket{t: 1}
	second := &bucket{t: 2}
	third := &bucket{t: 3}
	bh := &bucketHeap{buckets: []*bucket{}}
	require.Nil(bh.Peek())

	heap.Push(bh, second)
	heap.Push(bh, first)
	heap.Push(bh, third)
	require.Equal(3, bh.Len())
	require.Equal(first, bh.Peek())
	require.Equal(first, heap.Pop(bh))
	require.Equal(second, heap.Pop(bh))
	require.Equal(third, heap.Pop(bh))
	require.Zero(bh.Len())
}

func TestBucketHeapPushPanics(t *testing.T) {
	bh := &bucketHeap{buckets: []*bucket{}}
	require.Panics(t, func() { heap.Push(bh, bucket{t: 1}) })
}

func TestWindow(t *testing.T) {
	require := require.New(t)
	w := NewWindow[*testItem]()

	a := &testItem{id: ids.GenerateTestID(), t: 1_500}
	b := &testItem{id: ids.GenerateTestID(), t: 1_900}
	c := &testItem{id: ids.GenerateTestID(), t: 4_000}
	w.Add([]*testItem{a, b, c})
	require.Equal(3, w.Len())
	require.True(w.Any([]*testItem{a}))

	// Duplicates are ignored.
	w.Add([]*testItem{a})
	require.Equal(3, w.Len())

	// a and b share the 2s bucket and survive until it has passed.
	require.Empty(w.SetMin(1_900))
	require.Empty(w.SetMin(2_000))
	evicted := w.SetMin(2_001)
	require.ElementsMatch([]ids.ID{a.id, b.id}, evicted)
	require.False(w.Any([]*testItem{a, b}))
	require.True(w.Any([]*testItem{a, c}))

	// An evicted id may be added again.
	w.Add([]*testItem{a})
	require.Equal(2, w.Len())

	require.Len(w.SetMin(10_000), 2)
	require.Zero(w.Len())
	require.Empty(w.times)
}
