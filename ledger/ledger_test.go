// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/tstate"
)

var errRejected = errors.New("rejected")

type recordingReceiver struct {
	calls []string
	err   error
}

func (r *recordingReceiver) OnTransfer(_ context.Context, _ state.Mutable, _ codec.Address, token Token, _ uint64, memo string) error {
	r.calls = append(r.calls, token.Symbol+":"+memo)
	return r.err
}

func addr() codec.Address {
	return codec.CreateAddress(0, ids.GenerateTestID())
}

func setup(t *testing.T, l *Ledger, ts *tstate.TState, holder codec.Address) Token {
	require := require.New(t)
	issuer := addr()
	token := Token{Contract: issuer, Symbol: "BURGS"}
	require.NoError(l.Create(context.TODO(), ts, issuer, "BURGS", 1_000_000, 4))
	require.NoError(l.Issue(context.TODO(), ts, token, holder, 10_000))
	return token
}

func TestCreateIssue(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l := New()
	ts := tstate.New(memdb.New())
	issuer := addr()

	require.ErrorIs(l.Create(ctx, ts, issuer, "burgs", 1, 4), ErrInvalidSymbol)
	require.ErrorIs(l.Create(ctx, ts, issuer, "BURGS", 1, 19), ErrInvalidPrecision)
	require.NoError(l.Create(ctx, ts, issuer, "BURGS", 100, 4))
	require.ErrorIs(l.Create(ctx, ts, issuer, "BURGS", 100, 4), ErrTokenExists)

	token := Token{Contract: issuer, Symbol: "BURGS"}
	holder := addr()
	require.NoError(l.Issue(ctx, ts, token, holder, 60))
	require.ErrorIs(l.Issue(ctx, ts, token, holder, 41), ErrSupplyExceeded)

	stat, err := l.Stat(ctx, ts, token)
	require.NoError(err)
	require.Equal(uint64(60), stat.Supply)
	require.Equal(uint8(4), stat.Precision)

	_, err = l.Stat(ctx, ts, Token{Contract: issuer, Symbol: "NOPE"})
	require.ErrorIs(err, ErrTokenNotFound)
}

func TestTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l := New()
	ts := tstate.New(memdb.New())
	alice, bob := addr(), addr()
	token := setup(t, l, ts, alice)

	require.NoError(l.Transfer(ctx, ts, alice, bob, token, 2_500, "hi"))
	bal, err := l.Balance(ctx, ts, alice, token)
	require.NoError(err)
	require.Equal(uint64(7_500), bal)
	bal, err = l.Balance(ctx, ts, bob, token)
	require.NoError(err)
	require.Equal(uint64(2_500), bal)

	require.ErrorIs(l.Transfer(ctx, ts, bob, alice, token, 2_501, ""), ErrInsufficientBalance)
	require.ErrorIs(l.Transfer(ctx, ts, bob, bob, token, 1, ""), ErrSelfTransfer)
	require.ErrorIs(l.Transfer(ctx, ts, bob, alice, token, 0, ""), ErrZeroAmount)
	require.ErrorIs(l.Transfer(ctx, ts, bob, alice, Token{Contract: bob, Symbol: "BURGS"}, 1, ""), ErrTokenNotFound)
}

func TestReceiverNotified(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l := New()
	db := memdb.New()
	ts := tstate.New(db)
	alice, pool := addr(), addr()
	token := setup(t, l, ts, alice)
	require.NoError(ts.Commit())

	r := &recordingReceiver{}
	l.RegisterReceiver(pool, r)

	ts = tstate.New(db)
	require.NoError(l.Transfer(ctx, ts, alice, pool, token, 100, "nonce 1112"))
	require.Equal([]string{"BURGS:nonce 1112"}, r.calls)
	require.NoError(ts.Commit())

	// A rejecting receiver fails the transfer, and aborting the unit of work
	// restores both balances.
	r.err = errRejected
	ts = tstate.New(db)
	require.ErrorIs(l.Transfer(ctx, ts, alice, pool, token, 100, "nonce 1113"), errRejected)
	ts.Abort()

	ts = tstate.New(db)
	bal, err := l.Balance(ctx, ts, pool, token)
	require.NoError(err)
	require.Equal(uint64(100), bal)
	bal, err = l.Balance(ctx, ts, alice, token)
	require.NoError(err)
	require.Equal(uint64(9_900), bal)
}

func TestIssueToReceiver(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	l := New()
	ts := tstate.New(memdb.New())
	alice, pool := addr(), addr()
	token := setup(t, l, ts, alice)

	r := &recordingReceiver{}
	l.RegisterReceiver(pool, r)
	require.ErrorIs(l.Issue(ctx, ts, token, pool, 100), ErrIssueToReceiver)
	require.Empty(r.calls)

	bal, err := l.Balance(ctx, ts, pool, token)
	require.NoError(err)
	require.Zero(bal)
	stat, err := l.Stat(ctx, ts, token)
	require.NoError(err)
	require.Equal(uint64(10_000), stat.Supply)
}
