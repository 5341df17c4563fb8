// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
)

// [sharePrefix] + [owner] + [tokenID]
func ShareBalanceKey(owner codec.Address, tokenID uint64) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint64Len)
	k[0] = sharePrefix
	copy(k[1:], owner[:])
	binary.BigEndian.PutUint64(k[1+codec.AddressLen:], tokenID)
	return k
}

func ShareSupplyKey(tokenID uint64) []byte {
	return uint64Key(supplyPrefix, tokenID)
}

func GetShareBalance(ctx context.Context, im state.Immutable, owner codec.Address, tokenID uint64) (uint64, error) {
	v, _, err := getUint64(ctx, im, ShareBalanceKey(owner, tokenID))
	return v, err
}

// SetShareBalance stores [balance], deleting the key when it is zero.
func SetShareBalance(ctx context.Context, mu state.Mutable, owner codec.Address, tokenID uint64, balance uint64) error {
	return putUint64(ctx, mu, ShareBalanceKey(owner, tokenID), balance)
}

func GetShareSupply(ctx context.Context, im state.Immutable, tokenID uint64) (uint64, error) {
	v, _, err := getUint64(ctx, im, ShareSupplyKey(tokenID))
	return v, err
}

func SetShareSupply(ctx context.Context, mu state.Mutable, tokenID uint64, supply uint64) error {
	return putUint64(ctx, mu, ShareSupplyKey(tokenID), supply)
}

// ShareHolding is one (owner, balance) pair of a share token.
type ShareHolding struct {
	Owner   codec.Address `json:"owner"`
	TokenID uint64        `json:"tokenID"`
	Balance uint64        `json:"balance"`
}

// ShareHoldings lists every nonzero share balance of [owner].
func ShareHoldings(im state.Immutable, owner codec.Address) ([]ShareHolding, error) {
	prefix := make([]byte, 1+codec.AddressLen)
	prefix[0] = sharePrefix
	copy(prefix[1:], owner[:])
	iter := im.NewIteratorWithPrefix(prefix)
	defer iter.Release()

	holdings := []ShareHolding{}
	for iter.Next() {
		k, v := iter.Key(), iter.Value()
		if len(k) != 1+codec.AddressLen+consts.Uint64Len || len(v) != consts.Uint64Len {
			return nil, ErrCorruptValue
		}
		holdings = append(holdings, ShareHolding{
			Owner:   owner,
			TokenID: binary.BigEndian.Uint64(k[1+codec.AddressLen:]),
			Balance: binary.BigEndian.Uint64(v),
		})
	}
	return holdings, iter.Error()
}
