// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package liquidity

import (
	"fmt"
	"math/bits"

	"github.com/ava-labs/oswaps/pricing"
)

var (
	_ IssuancePolicy = FlatIssuance{}
	_ IssuancePolicy = ProportionalIssuance{}
)

// IssuancePolicy decides how many shares a deposit mints and how many a
// withdrawal burns. [supply] is the outstanding share supply and
// [balanceBefore] the pool balance of the asset before the operation.
type IssuancePolicy interface {
	Mint(amount, supply, balanceBefore uint64) (uint64, error)
	Burn(amount, supply, balanceBefore uint64) (uint64, error)
}

// FlatIssuance mints and burns one share per smallest unit of the asset.
type FlatIssuance struct{}

func (FlatIssuance) Mint(amount, _, _ uint64) (uint64, error) {
	return amount, nil
}

func (FlatIssuance) Burn(amount, _, _ uint64) (uint64, error) {
	return amount, nil
}

// ProportionalIssuance mints shares in proportion to the depositor's
// contribution to the pool balance. The first deposit into an empty pool is
// minted 1:1. Mints round down and burns round up so share holders can never
// extract more than they contributed.
type ProportionalIssuance struct{}

func (ProportionalIssuance) Mint(amount, supply, balanceBefore uint64) (uint64, error) {
	if supply == 0 || balanceBefore == 0 {
		return amount, nil
	}
	shares, _, err := mulDiv(amount, supply, balanceBefore)
	return shares, err
}

func (ProportionalIssuance) Burn(amount, supply, balanceBefore uint64) (uint64, error) {
	if balanceBefore == 0 {
		return 0, fmt.Errorf("%w: empty pool", pricing.ErrInsufficientPoolBalance)
	}
	shares, rem, err := mulDiv(amount, supply, balanceBefore)
	if err != nil {
		return 0, err
	}
	if rem > 0 {
		shares++
	}
	return shares, nil
}

// mulDiv returns a*b/c and the remainder using a 128-bit intermediate.
func mulDiv(a, b, c uint64) (uint64, uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, 0, fmt.Errorf("%w: %d*%d/%d", pricing.ErrArithmeticOverflow, a, b, c)
	}
	q, r := bits.Div64(hi, lo, c)
	return q, r, nil
}
