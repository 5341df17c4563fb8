// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)
	require.NotEqual(EmptyPrivateKey, priv)

	msg := []byte("prepare exchange")
	sig := Sign(msg, priv)
	require.True(Verify(msg, priv.PublicKey(), sig))
	require.False(Verify([]byte("prepare deposit"), priv.PublicKey(), sig))

	other, err := GeneratePrivateKey()
	require.NoError(err)
	require.False(Verify(msg, other.PublicKey(), sig))
}

func TestHexRoundTrip(t *testing.T) {
	require := require.New(t)
	priv, err := GeneratePrivateKey()
	require.NoError(err)

	parsed, err := HexToKey(priv.ToHex())
	require.NoError(err)
	require.Equal(priv, parsed)

	_, err = HexToKey("0x1234")
	require.ErrorIs(err, ErrInvalidPrivateKey)

	text, err := priv.PublicKey().MarshalText()
	require.NoError(err)
	var pk PublicKey
	require.NoError(pk.UnmarshalText(text))
	require.Equal(priv.PublicKey(), pk)
}
