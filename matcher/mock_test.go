// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package matcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/ledger/ledgermock"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/tstate"
	"github.com/ava-labs/oswaps/utils"
)

var errTransferFailed = errors.New("transfer failed")

type mockEnv struct {
	ts      *tstate.TState
	ledger  *ledgermock.Service
	matcher *Matcher
	seeds   ledger.Token
	tests   ledger.Token
	now     int64
}

// newMockEnv stores SEEDS (id 1, weight 0.5) and TESTS (id 2, weight 1)
// directly, with every ledger call served by the mock.
func newMockEnv(t *testing.T) *mockEnv {
	require := require.New(t)
	ctx := context.TODO()
	ctrl := gomock.NewController(t)
	issuer := codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())
	l := ledgermock.NewService(ctrl)
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(1_700_000_000_000))
	e := &mockEnv{
		ts:      tstate.New(memdb.New()),
		ledger:  l,
		matcher: New(logging.NoLog{}, clock, l, registry.New(l), liquidity.New(nil)),
		seeds:   ledger.Token{Contract: issuer, Symbol: "SEEDS"},
		tests:   ledger.Token{Contract: issuer, Symbol: "TESTS"},
		now:     clock.Time().UnixMilli(),
	}
	require.NoError(storage.SetConfig(ctx, e.ts, &storage.Config{
		Manager:       issuer,
		NonceLifetime: lifetime,
		Chain:         consts.DefaultChain,
		LastNonce:     consts.InitialNonce,
		LastTokenID:   2,
	}))
	for i, token := range []ledger.Token{e.seeds, e.tests} {
		require.NoError(storage.SetAsset(ctx, e.ts, &storage.Asset{
			TokenID:  uint64(i + 1),
			Identity: storage.Identity{Chain: consts.DefaultChain, Contract: issuer, Symbol: token.Symbol},
			Active:   true,
			Weight:   0.5 * float64(i+1),
		}))
	}
	l.EXPECT().Stat(gomock.Any(), gomock.Any(), gomock.Any()).Return(&storage.TokenStat{Precision: 4}, nil).AnyTimes()
	return e
}

func TestPrepareDepositEmptyPool(t *testing.T) {
	require := require.New(t)
	e := newMockEnv(t)
	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.seeds).Return(uint64(0), nil)

	_, err := e.matcher.PrepareDeposit(context.TODO(), e.ts, e.now, e.seeds.Contract, 1, "1.0000 SEEDS", 0)
	require.ErrorIs(err, pricing.ErrZeroWeightRequiresBalance)

	_, err = e.matcher.PrepareDeposit(context.TODO(), e.ts, e.now, e.seeds.Contract, 1, "1.0000 SEEDS", -1)
	require.ErrorIs(err, pricing.ErrInvalidWeight)

	_, err = e.matcher.PrepareDeposit(context.TODO(), e.ts, e.now, e.seeds.Contract, 9, "1.0000 SEEDS", 1)
	require.ErrorIs(err, registry.ErrUnknownAsset)

	_, err = e.matcher.PrepareDeposit(context.TODO(), e.ts, e.now, e.seeds.Contract, 1, "1.0000 TESTS", 1)
	require.ErrorIs(err, utils.ErrMalformedAmount)

	p, err := e.matcher.PrepareDeposit(context.TODO(), e.ts, e.now, e.seeds.Contract, 1, "1.0000 SEEDS", 2)
	require.NoError(err)
	require.Equal(2.0, p.Weight)
	require.Equal(uint64(10_000), p.Amount)
}

func TestFulfillExactIn(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newMockEnv(t)
	sender := codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())
	recipient := codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())

	require.NoError(storage.SetPendingExchange(ctx, e.ts, &storage.PendingExchange{
		Nonce:      1115,
		Expires:    e.now + lifetime,
		Sender:     sender,
		Recipient:  recipient,
		InTokenID:  2,
		InAmount:   "0.2500 TESTS",
		OutTokenID: 1,
		OutAmount:  "0.2000 SEEDS",
		Exact:      pricing.ExactIn,
		Memo:       "my memo",
	}))

	// Balances as seen after the 2500 TESTS credit.
	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.tests).Return(uint64(104_562), nil)
	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.seeds).Return(uint64(48_000), nil)
	e.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), auth.PoolAddress, recipient, e.seeds, uint64(2_268), "my memo").Return(nil)

	f, err := e.matcher.OnTransferReceived(ctx, e.ts, e.now, sender, e.tests, 2_500, 1115)
	require.NoError(err)
	require.Equal(Exchange, f.Kind)
	require.Equal(uint64(2_268), f.Paid)
	require.Zero(f.Refund)

	_, ok, err := storage.GetPendingExchange(ctx, e.ts, 1115)
	require.NoError(err)
	require.False(ok)
}

func TestFulfillExactOutRefund(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	e := newMockEnv(t)
	sender := codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())
	recipient := codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())

	require.NoError(storage.SetPendingExchange(ctx, e.ts, &storage.PendingExchange{
		Nonce:      1114,
		Expires:    e.now,
		Sender:     sender,
		Recipient:  recipient,
		InTokenID:  2,
		InAmount:   "0.2500 TESTS",
		OutTokenID: 1,
		OutAmount:  "0.2000 SEEDS",
		Exact:      pricing.ExactOut,
	}))

	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.tests).Return(uint64(102_000), nil)
	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.tests).Return(uint64(103_000), nil)
	e.ledger.EXPECT().Balance(gomock.Any(), gomock.Any(), auth.PoolAddress, e.seeds).Return(uint64(50_000), nil).Times(2)
	gomock.InOrder(
		e.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), auth.PoolAddress, recipient, e.seeds, uint64(2_000), "").Return(nil),
		e.ledger.EXPECT().Transfer(gomock.Any(), gomock.Any(), auth.PoolAddress, sender, e.tests, uint64(938), "oswaps refund 1114").Return(errTransferFailed),
	)

	// Too little received to cover the recomputed input of 2062.
	_, err := e.matcher.OnTransferReceived(ctx, e.ts, e.now, sender, e.tests, 2_000, 1114)
	require.ErrorIs(err, ErrAmountMismatch)

	_, err = e.matcher.OnTransferReceived(ctx, e.ts, e.now, sender, e.tests, 3_000, 1114)
	require.ErrorIs(err, errTransferFailed)
}
