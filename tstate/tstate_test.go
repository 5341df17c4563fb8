// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

var (
	testKey = []byte("key")
	testVal = []byte("value")
)

func TestInsertCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()

	ts := New(db)
	require.NoError(ts.Insert(ctx, testKey, testVal))
	val, err := ts.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)

	// Not visible until committed
	_, err = db.Get(testKey)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(ts.Commit())
	val, err = db.Get(testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	require.Equal(1, ts.OpIndex())
}

func TestAbortDiscards(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(testKey, testVal))

	ts := New(db)
	require.NoError(ts.Remove(ctx, testKey))
	require.NoError(ts.Insert(ctx, []byte("other"), testVal))
	_, err := ts.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	ts.Abort()

	val, err := db.Get(testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	has, err := db.Has([]byte("other"))
	require.NoError(err)
	require.False(has)

	require.ErrorIs(ts.Insert(ctx, testKey, testVal), ErrFinalized)
	require.ErrorIs(ts.Commit(), ErrFinalized)
}

func TestIteratorMergesPending(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put([]byte{1, 1}, testVal))
	require.NoError(db.Put([]byte{1, 3}, testVal))
	require.NoError(db.Put([]byte{2, 1}, testVal))

	ts := New(db)
	require.NoError(ts.Insert(ctx, []byte{1, 2}, testVal))
	require.NoError(ts.Remove(ctx, []byte{1, 3}))

	iter := ts.NewIteratorWithPrefix([]byte{1})
	defer iter.Release()
	keys := [][]byte{}
	for iter.Next() {
		keys = append(keys, append([]byte{}, iter.Key()...))
	}
	require.NoError(iter.Error())
	require.Equal([][]byte{{1, 1}, {1, 2}}, keys)
}

func TestEmptyKey(t *testing.T) {
	require := require.New(t)
	ts := New(memdb.New())
	require.ErrorIs(ts.Insert(context.TODO(), nil, testVal), ErrKeyNotSpecified)
	_, err := ts.GetValue(context.TODO(), nil)
	require.ErrorIs(err, ErrKeyNotSpecified)
}
