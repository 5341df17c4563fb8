// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
)

// State
// 0x0/ (config)
//   -> [] => manager|lifetime|chain|lastNonce|lastTokenID
// 0x1/ (assets)
//   -> [tokenID] => chain|contract|symbol|active|weight|metadata
// 0x2/ (asset identities)
//   -> [hash(chain|contract|symbol)] => tokenID
// 0x3/ (pending deposits)
//   -> [nonce] => expires|depositor|tokenID|amount|weight
// 0x4/ (pending deposit expiries)
//   -> [expires|nonce] => nil
// 0x5/ (pending exchanges)
//   -> [nonce] => expires|sender|recipient|in|out|exact|memo
// 0x6/ (pending exchange expiries)
//   -> [expires|nonce] => nil
// 0x7/ (share balances)
//   -> [owner|tokenID] => balance
// 0x8/ (share supply)
//   -> [tokenID] => supply
// 0x10/ (ledger tokens)
//   -> [contract|symbol] => precision|supply|maxSupply
// 0x11/ (ledger balances)
//   -> [owner|contract|symbol] => balance

const (
	configPrefix byte = iota
	assetPrefix
	identityPrefix
	depositPrefix
	depositExpiryPrefix
	exchangePrefix
	exchangeExpiryPrefix
	sharePrefix
	supplyPrefix
)

const (
	tokenPrefix byte = 0x10 + iota
	balancePrefix
)

// PoolPrefixes lists every table owned by the pool (and cleared by a full
// reset). Ledger tables are not included.
var PoolPrefixes = []byte{
	configPrefix,
	assetPrefix,
	identityPrefix,
	depositPrefix,
	depositExpiryPrefix,
	exchangePrefix,
	exchangeExpiryPrefix,
	sharePrefix,
	supplyPrefix,
}

var configKey = []byte{configPrefix}

func uint64Key(prefix byte, v uint64) []byte {
	k := make([]byte, 1+consts.Uint64Len)
	k[0] = prefix
	binary.BigEndian.PutUint64(k[1:], v)
	return k
}

// [prefix] + [expires] + [nonce]
//
// Expiries are non-negative unix milliseconds, so big-endian ordering of the
// unsigned value is chronological.
func expiryKey(prefix byte, expires int64, nonce uint64) []byte {
	k := make([]byte, 1+consts.Int64Len+consts.Uint64Len)
	k[0] = prefix
	binary.BigEndian.PutUint64(k[1:], uint64(expires))
	binary.BigEndian.PutUint64(k[1+consts.Int64Len:], nonce)
	return k
}

func parseExpiryKey(k []byte) (int64, uint64, error) {
	if len(k) != 1+consts.Int64Len+consts.Uint64Len {
		return 0, 0, ErrCorruptKey
	}
	return int64(binary.BigEndian.Uint64(k[1:])), binary.BigEndian.Uint64(k[1+consts.Int64Len:]), nil
}

func uint64Value(v uint64) []byte {
	b := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func getUint64(ctx context.Context, im state.Immutable, key []byte) (uint64, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, ErrCorruptValue
	}
	return binary.BigEndian.Uint64(v), true, nil
}

// putUint64 stores [v] under [key], removing the key when [v] is zero.
func putUint64(ctx context.Context, mu state.Mutable, key []byte, v uint64) error {
	if v == 0 {
		return mu.Remove(ctx, key)
	}
	return mu.Insert(ctx, key, uint64Value(v))
}

func getRecord(ctx context.Context, im state.Immutable, key []byte) ([]byte, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func newWriter(initial int) *codec.Packer {
	return codec.NewWriter(initial, consts.NetworkSizeLimit)
}

func newReader(b []byte) *codec.Packer {
	return codec.NewReader(b, consts.NetworkSizeLimit)
}

// ClearPrefix removes every key starting with [prefix].
func ClearPrefix(ctx context.Context, mu state.Mutable, prefix byte) (int, error) {
	keys, err := collectKeys(mu, []byte{prefix}, -1)
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		if err := mu.Remove(ctx, k); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// collectKeys copies up to [limit] keys with [prefix] (all when negative).
// Keys are collected before any mutation so callers never modify a table
// while iterating over it.
func collectKeys(im state.Immutable, prefix []byte, limit int) ([][]byte, error) {
	iter := im.NewIteratorWithPrefix(prefix)
	defer iter.Release()

	keys := [][]byte{}
	for iter.Next() {
		if limit >= 0 && len(keys) >= limit {
			break
		}
		keys = append(keys, append([]byte{}, iter.Key()...))
	}
	return keys, iter.Error()
}
