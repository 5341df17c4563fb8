// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

var _ Service = (*Ledger)(nil)

// Ledger is an in-process token contract. Tokens are created by an issuer
// (the token's contract address), issued into accounts and moved with
// Transfer. Accounts with a registered Receiver are notified of every
// transfer they receive within the same unit of work, so a failing receiver
// rolls back the transfer that triggered it. Receivers cannot be issued
// into, since issuance carries no sender or memo to notify with.
type Ledger struct {
	lock      sync.RWMutex
	receivers map[codec.Address]Receiver
}

func New() *Ledger {
	return &Ledger{receivers: make(map[codec.Address]Receiver)}
}

// RegisterReceiver installs [r] as the transfer hook for [account].
func (l *Ledger) RegisterReceiver(account codec.Address, r Receiver) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.receivers[account] = r
}

func (l *Ledger) receiver(account codec.Address) (Receiver, bool) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	r, ok := l.receivers[account]
	return r, ok
}

// Create registers a new token issued by [issuer].
func (*Ledger) Create(
	ctx context.Context,
	mu state.Mutable,
	issuer codec.Address,
	symbol string,
	maxSupply uint64,
	precision uint8,
) error {
	if err := validSymbol(symbol); err != nil {
		return err
	}
	if precision > consts.MaxPrecision {
		return fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	if maxSupply == 0 {
		return fmt.Errorf("%w: max supply", ErrZeroAmount)
	}
	_, exists, err := storage.GetTokenStat(ctx, mu, issuer, symbol)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTokenExists, symbol)
	}
	return storage.SetTokenStat(ctx, mu, issuer, symbol, &storage.TokenStat{
		Precision: precision,
		MaxSupply: maxSupply,
	})
}

// Issue mints [amount] of [token] into [to]. Only the token's contract may
// issue, which the caller enforces by passing the issuer as the contract.
func (l *Ledger) Issue(
	ctx context.Context,
	mu state.Mutable,
	token Token,
	to codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if _, ok := l.receiver(to); ok {
		return fmt.Errorf("%w: %s", ErrIssueToReceiver, to)
	}
	stat, err := l.Stat(ctx, mu, token)
	if err != nil {
		return err
	}
	supply, err := smath.Add(stat.Supply, amount)
	if err != nil || supply > stat.MaxSupply {
		return fmt.Errorf("%w: supply %d + %d > %d", ErrSupplyExceeded, stat.Supply, amount, stat.MaxSupply)
	}
	stat.Supply = supply
	if err := storage.SetTokenStat(ctx, mu, token.Contract, token.Symbol, stat); err != nil {
		return err
	}
	return storage.AddBalance(ctx, mu, to, token.Contract, token.Symbol, amount)
}

func (l *Ledger) Transfer(
	ctx context.Context,
	mu state.Mutable,
	from codec.Address,
	to codec.Address,
	token Token,
	amount uint64,
	memo string,
) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	if from == to {
		return ErrSelfTransfer
	}
	if len(memo) > consts.MaxMemoLen {
		return fmt.Errorf("%w: %d > %d", ErrMemoTooLong, len(memo), consts.MaxMemoLen)
	}
	if _, err := l.Stat(ctx, mu, token); err != nil {
		return err
	}
	if err := storage.SubBalance(ctx, mu, from, token.Contract, token.Symbol, amount); err != nil {
		if errors.Is(err, storage.ErrInvalidBalance) {
			return fmt.Errorf("%w: %w", ErrInsufficientBalance, err)
		}
		return err
	}
	if err := storage.AddBalance(ctx, mu, to, token.Contract, token.Symbol, amount); err != nil {
		return err
	}
	if r, ok := l.receiver(to); ok {
		return r.OnTransfer(ctx, mu, from, token, amount, memo)
	}
	return nil
}

func (*Ledger) Balance(ctx context.Context, im state.Immutable, owner codec.Address, token Token) (uint64, error) {
	return storage.GetBalance(ctx, im, owner, token.Contract, token.Symbol)
}

func (*Ledger) Stat(ctx context.Context, im state.Immutable, token Token) (*storage.TokenStat, error) {
	stat, ok, err := storage.GetTokenStat(ctx, im, token.Contract, token.Symbol)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, token)
	}
	return stat, nil
}

func validSymbol(symbol string) error {
	if len(symbol) == 0 || len(symbol) > consts.MaxSymbolLen {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	for _, c := range symbol {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
		}
	}
	return nil
}
