// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/tstate"
	"github.com/ava-labs/oswaps/utils"
)

var (
	contract = codec.CreateAddress(1, utils.ToID([]byte("eosio.token")))
	manager  = codec.CreateAddress(1, utils.ToID([]byte("manager")))
)

func setup(t *testing.T) (*tstate.TState, *Registry) {
	require := require.New(t)
	ctx := context.TODO()
	ts := tstate.New(memdb.New())
	require.NoError(storage.SetConfig(ctx, ts, &storage.Config{
		Manager:       manager,
		NonceLifetime: 1_000,
		Chain:         consts.DefaultChain,
		LastNonce:     consts.InitialNonce,
	}))
	l := ledger.New()
	require.NoError(l.Create(ctx, ts, contract, "AZURES", 1_000_000_000, 4))
	require.NoError(l.Create(ctx, ts, contract, "BURGS", 1_000_000_000, 4))
	return ts, New(l)
}

func identity(symbol string) storage.Identity {
	return storage.Identity{Chain: consts.DefaultChain, Contract: contract, Symbol: symbol}
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts, r := setup(t)

	azures, err := r.Register(ctx, ts, identity("AZURES"), 0, "blue")
	require.NoError(err)
	require.Equal(uint64(1), azures.TokenID)
	require.Equal("LIQB", azures.ShareSymbol())

	// Active assets always carry a positive weight.
	stored, err := Get(ctx, ts, azures.TokenID)
	require.NoError(err)
	require.False(stored.Active)
	require.Zero(stored.Weight)
	require.ErrorIs(RequireActive(stored), ErrInactiveAsset)

	burgs, err := r.Register(ctx, ts, identity("BURGS"), 1.5, "")
	require.NoError(err)
	require.Equal(uint64(2), burgs.TokenID)
	require.True(burgs.Active)
	require.NoError(RequireActive(burgs))

	_, err = r.Register(ctx, ts, identity("AZURES"), 0, "")
	require.ErrorIs(err, ErrDuplicateIdentity)

	other := identity("BURGS")
	other.Chain = "EOS"
	_, err = r.Register(ctx, ts, other, 0, "")
	require.ErrorIs(err, ErrUnsupportedChain)

	_, err = r.Register(ctx, ts, identity("MISSING"), 0, "")
	require.ErrorIs(err, ledger.ErrTokenNotFound)

	got, err := GetByIdentity(ctx, ts, identity("BURGS"))
	require.NoError(err)
	require.Equal(burgs, got)

	assets, err := List(ctx, ts)
	require.NoError(err)
	require.Len(assets, 2)
	require.Equal(uint64(1), assets[0].TokenID)
	require.Equal(uint64(2), assets[1].TokenID)

	precision, err := r.Precision(ctx, ts, azures)
	require.NoError(err)
	require.Equal(uint8(4), precision)
	require.Equal(ledger.Token{Contract: contract, Symbol: "AZURES"}, TokenOf(azures.Identity))
	require.Equal(ledger.Token{Contract: auth.PoolAddress, Symbol: "LIQB"}, ShareToken(azures))
}

func TestRegisterDefaultsToHomeChain(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts, r := setup(t)

	id := identity("AZURES")
	id.Chain = ""
	asset, err := r.Register(ctx, ts, id, 1, "")
	require.NoError(err)
	require.Equal(consts.DefaultChain, asset.Identity.Chain)

	got, err := GetByIdentity(ctx, ts, identity("AZURES"))
	require.NoError(err)
	require.Equal(asset.TokenID, got.TokenID)

	_, err = r.Register(ctx, ts, id, 1, "")
	require.ErrorIs(err, ErrDuplicateIdentity)
}

func TestRegisterNotConfigured(t *testing.T) {
	require := require.New(t)
	ts := tstate.New(memdb.New())
	_, err := New(ledger.New()).Register(context.TODO(), ts, identity("AZURES"), 0, "")
	require.ErrorIs(err, storage.ErrNotConfigured)
}

func TestDeregister(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts, r := setup(t)

	asset, err := r.Register(ctx, ts, identity("AZURES"), 1, "")
	require.NoError(err)

	require.NoError(storage.SetShareSupply(ctx, ts, asset.TokenID, 10))
	_, err = r.Deregister(ctx, ts, asset.TokenID)
	require.ErrorIs(err, ErrOutstandingShares)

	require.NoError(storage.SetShareSupply(ctx, ts, asset.TokenID, 0))
	removed, err := r.Deregister(ctx, ts, asset.TokenID)
	require.NoError(err)
	require.Equal(asset.TokenID, removed.TokenID)

	_, err = Get(ctx, ts, asset.TokenID)
	require.ErrorIs(err, ErrUnknownAsset)
	_, err = GetByIdentity(ctx, ts, identity("AZURES"))
	require.ErrorIs(err, ErrUnknownAsset)
	_, err = r.Deregister(ctx, ts, asset.TokenID)
	require.ErrorIs(err, ErrUnknownAsset)

	// Token ids are never reused.
	again, err := r.Register(ctx, ts, identity("AZURES"), 1, "")
	require.NoError(err)
	require.Equal(uint64(2), again.TokenID)
}

func TestSetWeight(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts, r := setup(t)

	asset, err := r.Register(ctx, ts, identity("AZURES"), 0, "")
	require.NoError(err)
	require.ErrorIs(RequireActive(asset), ErrInactiveAsset)

	require.NoError(SetWeight(ctx, ts, asset, 2.5))
	asset, err = Get(ctx, ts, asset.TokenID)
	require.NoError(err)
	require.Equal(2.5, asset.Weight)
	require.NoError(RequireActive(asset))

	require.ErrorIs(SetWeight(ctx, ts, asset, -1), pricing.ErrInvalidWeight)
	require.ErrorIs(SetWeight(ctx, ts, asset, math.NaN()), pricing.ErrInvalidWeight)
}
