// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrInvalidSide               = errors.New("invalid exchange side")
	ErrInvalidWeight             = errors.New("weight must be positive and finite")
	ErrZeroBalance               = errors.New("pool balance is zero")
	ErrZeroAmount                = errors.New("amount is zero")
	ErrArithmeticOverflow        = errors.New("arithmetic overflow")
	ErrInsufficientPoolBalance   = errors.New("insufficient pool balance")
	ErrZeroWeightRequiresBalance = errors.New("automatic weight requires a nonzero pool balance")
	ErrSlippageFloorViolated     = errors.New("output below minimum")
	ErrInputCapExceeded          = errors.New("input above maximum")
)
