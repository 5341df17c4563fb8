// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.CacheSize = 1024 * 1024
	cfg.Sync = false
	db, _, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	has, err := db.Has([]byte("k"))
	require.NoError(err)
	require.True(has)
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(db.Delete([]byte("k")))
	has, err = db.Has([]byte("k"))
	require.NoError(err)
	require.False(has)

	_, err = db.HealthCheck(context.Background())
	require.NoError(err)
	require.NoError(db.Close())
	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestBatchAndPrefixIterator(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	b := db.NewBatch()
	require.NoError(b.Put([]byte{1, 0xff}, []byte("a")))
	require.NoError(b.Put([]byte{1, 0x01}, []byte("b")))
	require.NoError(b.Put([]byte{2}, []byte("c")))
	require.NoError(b.Put([]byte{0}, []byte("d")))
	require.NoError(b.Delete([]byte{0}))
	require.Positive(b.Size())
	require.NoError(b.Write())

	iter := db.NewIteratorWithPrefix([]byte{1})
	keys := [][]byte{}
	for iter.Next() {
		keys = append(keys, iter.Key())
	}
	require.NoError(iter.Error())
	iter.Release()
	require.Equal([][]byte{{1, 0x01}, {1, 0xff}}, keys)

	iter = db.NewIteratorWithStartAndPrefix([]byte{1, 0x02}, []byte{1})
	require.True(iter.Next())
	require.Equal([]byte("a"), iter.Value())
	require.False(iter.Next())
	iter.Release()

	has, err := db.Has([]byte{0})
	require.NoError(err)
	require.False(has)
}

func TestPrefixUpperBound(t *testing.T) {
	require := require.New(t)
	require.Nil(prefixUpperBound(nil))
	require.Nil(prefixUpperBound([]byte{0xff, 0xff}))
	require.Equal([]byte{2}, prefixUpperBound([]byte{1}))
	require.Equal([]byte{1, 3}, prefixUpperBound([]byte{1, 2, 0xff}))
}

func randBytes() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

func BenchmarkBatchInsertion(b *testing.B) {
	const batchSize = 10_000
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}
			keys := make([][]byte, batchSize)
			for i := range keys {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
