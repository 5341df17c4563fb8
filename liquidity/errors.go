// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package liquidity

import "errors"

var (
	ErrInsufficientShareBalance = errors.New("insufficient share balance")
	ErrZeroShares               = errors.New("zero shares")
)
