// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -package=ledgermock -destination=ledgermock/service.go -mock_names=Service=Service . Service

package ledger

import (
	"context"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

// Token identifies a fungible token by the contract that issued it and its
// symbol.
type Token struct {
	Contract codec.Address `json:"contract"`
	Symbol   string        `json:"symbol"`
}

func (t Token) String() string {
	return t.Symbol + "@" + t.Contract.String()
}

// Service is the token ledger the pool settles against.
type Service interface {
	// Transfer moves [amount] of [token] from [from] to [to]. The transfer
	// is part of the caller's unit of work.
	Transfer(
		ctx context.Context,
		mu state.Mutable,
		from codec.Address,
		to codec.Address,
		token Token,
		amount uint64,
		memo string,
	) error
	Balance(ctx context.Context, im state.Immutable, owner codec.Address, token Token) (uint64, error)
	Stat(ctx context.Context, im state.Immutable, token Token) (*storage.TokenStat, error)
}

// Receiver is notified of every transfer credited to the account it is
// registered for.
type Receiver interface {
	OnTransfer(
		ctx context.Context,
		mu state.Mutable,
		from codec.Address,
		token Token,
		amount uint64,
		memo string,
	) error
}
