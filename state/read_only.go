// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Mutable = (*ReadOnly)(nil)

	ErrReadOnly = errors.New("state is read-only")
)

// ReadOnly wraps an Immutable so it can be passed where a Mutable is
// expected. Every write fails with ErrReadOnly.
type ReadOnly struct {
	im Immutable
}

func NewReadOnly(im Immutable) *ReadOnly {
	return &ReadOnly{im: im}
}

func (r *ReadOnly) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	return r.im.GetValue(ctx, key)
}

func (r *ReadOnly) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return r.im.NewIteratorWithPrefix(prefix)
}

func (*ReadOnly) Insert(context.Context, []byte, []byte) error {
	return ErrReadOnly
}

func (*ReadOnly) Remove(context.Context, []byte) error {
	return ErrReadOnly
}
