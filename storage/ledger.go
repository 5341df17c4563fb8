// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
)

// TokenStat is the ledger's record of a token issued by a contract.
type TokenStat struct {
	Precision uint8  `json:"precision"`
	Supply    uint64 `json:"supply"`
	MaxSupply uint64 `json:"maxSupply"`
}

func (s *TokenStat) Marshal() []byte {
	p := newWriter(consts.ByteLen + 2*consts.Uint64Len)
	p.PackByte(s.Precision)
	p.PackUint64(s.Supply)
	p.PackUint64(s.MaxSupply)
	return p.Bytes()
}

func UnmarshalTokenStat(b []byte) (*TokenStat, error) {
	var s TokenStat
	p := newReader(b)
	s.Precision = p.UnpackByte()
	s.Supply = p.UnpackUint64(false)
	s.MaxSupply = p.UnpackUint64(true)
	return &s, p.Done()
}

func appendSymbol(k []byte, symbol string) []byte {
	return append(k, symbol...)
}

// [tokenPrefix] + [contract] + [symbol]
func TokenKey(contract codec.Address, symbol string) []byte {
	k := make([]byte, 1+codec.AddressLen, 1+codec.AddressLen+len(symbol))
	k[0] = tokenPrefix
	copy(k[1:], contract[:])
	return appendSymbol(k, symbol)
}

// [balancePrefix] + [owner] + [contract] + [symbol]
func BalanceKey(owner codec.Address, contract codec.Address, symbol string) []byte {
	k := make([]byte, 1+2*codec.AddressLen, 1+2*codec.AddressLen+len(symbol))
	k[0] = balancePrefix
	copy(k[1:], owner[:])
	copy(k[1+codec.AddressLen:], contract[:])
	return appendSymbol(k, symbol)
}

func GetTokenStat(ctx context.Context, im state.Immutable, contract codec.Address, symbol string) (*TokenStat, bool, error) {
	v, ok, err := getRecord(ctx, im, TokenKey(contract, symbol))
	if err != nil || !ok {
		return nil, false, err
	}
	s, err := UnmarshalTokenStat(v)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func SetTokenStat(ctx context.Context, mu state.Mutable, contract codec.Address, symbol string, s *TokenStat) error {
	return mu.Insert(ctx, TokenKey(contract, symbol), s.Marshal())
}

func GetBalance(ctx context.Context, im state.Immutable, owner codec.Address, contract codec.Address, symbol string) (uint64, error) {
	v, _, err := getUint64(ctx, im, BalanceKey(owner, contract, symbol))
	return v, err
}

func AddBalance(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	contract codec.Address,
	symbol string,
	amount uint64,
) error {
	key := BalanceKey(owner, contract, symbol)
	bal, _, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not add balance (symbol=%s, bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			symbol,
			bal,
			owner,
			amount,
		)
	}
	return putUint64(ctx, mu, key, nbal)
}

func SubBalance(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	contract codec.Address,
	symbol string,
	amount uint64,
) error {
	key := BalanceKey(owner, contract, symbol)
	bal, _, err := getUint64(ctx, mu, key)
	if err != nil {
		return err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not subtract balance (symbol=%s, bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			symbol,
			bal,
			owner,
			amount,
		)
	}
	// Zero balances are deleted to keep the table sparse.
	return putUint64(ctx, mu, key, nbal)
}
