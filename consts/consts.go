// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "time"

const (
	Name = "oswaps"

	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	Uint64Len = 8
	Int64Len  = 8
	MaxUint64 = ^uint64(0)
	MaxInt64  = int64(^uint64(0) >> 1)

	// MaxSymbolLen bounds ledger symbols and share symbols.
	MaxSymbolLen = 12
	// MaxMemoLen bounds memos carried by transfers and exchanges.
	MaxMemoLen = 256
	// MaxMetadataLen bounds the free-form metadata of a registered asset.
	MaxMetadataLen = 1024
	MaxChainLen    = 32
	MaxPrecision   = 18

	// NetworkSizeLimit bounds any packed record or action.
	NetworkSizeLimit = 2 * 1024 * 1024
)

const (
	// InitialNonce is the value of the nonce counter after configuration;
	// the first allocated nonce is InitialNonce+1.
	InitialNonce uint64 = 1111
	// InternalTransferNonce tags a transfer into the pool that must not be
	// matched against any pending request (donations, internal top-ups).
	InternalTransferNonce uint64 = 42

	DefaultNonceLifetime = 5 * time.Minute
	DefaultChain         = "Telos"

	// SharePrefix prefixes every liquidity-share symbol.
	SharePrefix = "LIQ"
)
