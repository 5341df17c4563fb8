// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/versiondb"

	"github.com/ava-labs/oswaps/state"
)

var _ state.Mutable = (*TState)(nil)

// TState is a single unit of work over a database. Writes are buffered in
// memory and are only visible to readers of the underlying database after
// [Commit]. [Abort] discards every buffered write.
type TState struct {
	vdb *versiondb.Database

	ops  int
	done bool
}

// New returns a new instance of TState.
func New(db database.Database) *TState {
	return &TState{vdb: versiondb.New(db)}
}

func (ts *TState) GetValue(_ context.Context, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrKeyNotSpecified
	}
	return ts.vdb.Get(key)
}

func (ts *TState) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return ts.vdb.NewIteratorWithPrefix(prefix)
}

func (ts *TState) Insert(_ context.Context, key []byte, value []byte) error {
	if err := ts.writable(key); err != nil {
		return err
	}
	ts.ops++
	return ts.vdb.Put(key, value)
}

func (ts *TState) Remove(_ context.Context, key []byte) error {
	if err := ts.writable(key); err != nil {
		return err
	}
	ts.ops++
	return ts.vdb.Delete(key)
}

// OpIndex returns the number of writes applied so far.
func (ts *TState) OpIndex() int {
	return ts.ops
}

// Commit flushes every buffered write to the underlying database atomically.
func (ts *TState) Commit() error {
	if ts.done {
		return ErrFinalized
	}
	ts.done = true
	return ts.vdb.Commit()
}

// Abort discards every buffered write.
func (ts *TState) Abort() {
	if ts.done {
		return
	}
	ts.done = true
	ts.vdb.Abort()
}

func (ts *TState) writable(key []byte) error {
	if ts.done {
		return ErrFinalized
	}
	if len(key) == 0 {
		return ErrKeyNotSpecified
	}
	return nil
}
