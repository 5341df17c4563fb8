// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/crypto/ed25519"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/tstate"
)

func newAddress(t *testing.T) codec.Address {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return NewED25519Factory(priv).Address()
}

func TestPolicy(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := tstate.New(memdb.New())
	bootstrap, manager, alice, bob := newAddress(t), newAddress(t), newAddress(t), newAddress(t)
	p := NewPolicy(bootstrap)

	// Unconfigured: only the bootstrap principal is privileged.
	require.NoError(p.AuthorizeManager(ctx, ts, bootstrap))
	require.ErrorIs(p.AuthorizeManager(ctx, ts, manager), ErrAuthorizationDenied)
	require.NoError(p.Authorize(ctx, ts, alice, alice))
	require.ErrorIs(p.Authorize(ctx, ts, alice, bob), ErrAuthorizationDenied)

	require.NoError(storage.SetConfig(ctx, ts, &storage.Config{
		Manager:       manager,
		NonceLifetime: 1_000,
		Chain:         consts.DefaultChain,
		LastNonce:     consts.InitialNonce,
	}))

	// Configured: the manager replaces the bootstrap principal.
	require.NoError(p.AuthorizeManager(ctx, ts, manager))
	require.ErrorIs(p.AuthorizeManager(ctx, ts, bootstrap), ErrAuthorizationDenied)
	require.NoError(p.Authorize(ctx, ts, manager, bob))
	require.ErrorIs(p.Authorize(ctx, ts, alice, bob), ErrAuthorizationDenied)

	require.NoError(p.AuthorizeBootstrap(bootstrap))
	require.ErrorIs(p.AuthorizeBootstrap(manager), ErrAuthorizationDenied)
	require.ErrorIs(NewPolicy(codec.EmptyAddress).AuthorizeBootstrap(codec.EmptyAddress), ErrAuthorizationDenied)
}

func TestED25519(t *testing.T) {
	require := require.New(t)
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	f := NewED25519Factory(priv)

	msg := []byte("digest")
	a := f.Sign(msg)
	require.NoError(a.Verify(context.TODO(), msg))
	require.Equal(f.Address(), a.Actor())
	require.Equal(ED25519ID, a.Actor()[0])

	parsed, err := UnmarshalED25519(a.Bytes())
	require.NoError(err)
	require.Equal(a.Signer, parsed.Signer)
	require.Equal(a.Signature, parsed.Signature)
	require.ErrorIs(parsed.Verify(context.TODO(), []byte("other")), ed25519.ErrInvalidSignature)

	_, err = UnmarshalED25519(a.Bytes()[1:])
	require.ErrorIs(err, ErrInvalidAuth)

	require.NotEqual(f.Address(), PoolAddress)
	require.Equal(PoolID, PoolAddress[0])
}
