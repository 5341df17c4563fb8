// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "errors"

var (
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrInactiveAsset     = errors.New("asset is not active")
	ErrDuplicateIdentity = errors.New("asset identity already registered")
	ErrOutstandingShares = errors.New("asset has outstanding liquidity shares")
	ErrUnsupportedChain  = errors.New("unsupported chain")
	ErrMetadataTooLong   = errors.New("metadata too long")
)
