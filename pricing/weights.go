// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"
	"math"
)

// DepositWeight scales [weight] by the growth of the pool balance so the
// marginal price against every other asset is unchanged:
//
//	new = old * (1 + amount/before)
func DepositWeight(weight float64, amount uint64, before uint64) (float64, error) {
	if before == 0 {
		return 0, ErrZeroWeightRequiresBalance
	}
	if err := validWeight(weight); err != nil {
		return 0, fmt.Errorf("%w: current weight %v", err, weight)
	}
	w := weight * (1 + float64(amount)/float64(before))
	if math.IsInf(w, 0) {
		return 0, fmt.Errorf("%w: weight", ErrArithmeticOverflow)
	}
	return w, nil
}

// WithdrawWeight is the inverse of DepositWeight:
//
//	new = old * (1 - amount/before)
//
// A withdrawal must leave a nonzero balance.
func WithdrawWeight(weight float64, amount uint64, before uint64) (float64, error) {
	if amount >= before {
		return 0, fmt.Errorf("%w: withdraw %d from %d", ErrInsufficientPoolBalance, amount, before)
	}
	if err := validWeight(weight); err != nil {
		return 0, fmt.Errorf("%w: current weight %v", err, weight)
	}
	return weight * (1 - float64(amount)/float64(before)), nil
}

// ValidateWeight returns ErrInvalidWeight unless [w] is positive and finite.
func ValidateWeight(w float64) error {
	return validWeight(w)
}
