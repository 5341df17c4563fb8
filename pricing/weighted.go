// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"fmt"
	"math"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// maxUint64Float is 2^64, the first float64 that does not fit in a uint64.
const maxUint64Float = float64(1 << 64)

// Input describes one exchange against the weighted geometric invariant
//
//	B_in^W_in * B_out^W_out = const
//
// Balances are in smallest units and are the pool balances before the
// exchange.
type Input struct {
	WeightIn   float64
	BalanceIn  uint64
	WeightOut  float64
	BalanceOut uint64

	Side Side
	// Amount is the controlling amount: the input for ExactIn and the
	// output for ExactOut.
	Amount uint64
}

type Result struct {
	// Computed is the non-controlling amount: the output for ExactIn and the
	// required input for ExactOut.
	Computed uint64

	// Pool balances after the exchange.
	BalanceIn  uint64
	BalanceOut uint64
}

// Compute runs the invariant for [in]. It is pure and deterministic: the same
// input always produces the same result, so a provisional quote and the
// settlement computation agree on identical balances.
func Compute(in Input) (Result, error) {
	if err := validWeight(in.WeightIn); err != nil {
		return Result{}, fmt.Errorf("%w: input weight %v", err, in.WeightIn)
	}
	if err := validWeight(in.WeightOut); err != nil {
		return Result{}, fmt.Errorf("%w: output weight %v", err, in.WeightOut)
	}
	if in.BalanceIn == 0 {
		return Result{}, fmt.Errorf("%w: input", ErrZeroBalance)
	}
	if in.BalanceOut == 0 {
		return Result{}, fmt.Errorf("%w: output", ErrZeroBalance)
	}
	if in.Amount == 0 {
		return Result{}, ErrZeroAmount
	}

	switch in.Side {
	case ExactIn:
		newIn, err := smath.Add(in.BalanceIn, in.Amount)
		if err != nil {
			return Result{}, fmt.Errorf("%w: input balance", ErrArithmeticOverflow)
		}
		lc := math.Log(float64(newIn) / float64(in.BalanceIn))
		lnc := -(in.WeightIn / in.WeightOut) * lc
		newOut, err := toBalance(float64(in.BalanceOut) * math.Exp(lnc))
		if err != nil {
			return Result{}, err
		}
		if newOut > in.BalanceOut {
			return Result{}, fmt.Errorf("%w: output balance grew", ErrArithmeticOverflow)
		}
		return Result{
			Computed:   in.BalanceOut - newOut,
			BalanceIn:  newIn,
			BalanceOut: newOut,
		}, nil
	case ExactOut:
		if in.Amount >= in.BalanceOut {
			return Result{}, fmt.Errorf(
				"%w: %d requested from %d",
				ErrInsufficientPoolBalance,
				in.Amount,
				in.BalanceOut,
			)
		}
		newOut := in.BalanceOut - in.Amount
		lc := math.Log(float64(newOut) / float64(in.BalanceOut))
		lnc := -(in.WeightOut / in.WeightIn) * lc
		newIn, err := toBalance(float64(in.BalanceIn) * math.Exp(lnc))
		if err != nil {
			return Result{}, err
		}
		if newIn < in.BalanceIn {
			return Result{}, fmt.Errorf("%w: input balance shrank", ErrArithmeticOverflow)
		}
		return Result{
			Computed:   newIn - in.BalanceIn,
			BalanceIn:  newIn,
			BalanceOut: newOut,
		}, nil
	default:
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidSide, in.Side)
	}
}

// CheckLimit enforces the non-controlling leg. For ExactIn [limit] is the
// minimum acceptable output; for ExactOut it is the maximum acceptable input.
func CheckLimit(side Side, computed uint64, limit uint64) error {
	switch side {
	case ExactIn:
		if computed < limit {
			return fmt.Errorf("%w: computed %d < limit %d", ErrSlippageFloorViolated, computed, limit)
		}
	case ExactOut:
		if computed > limit {
			return fmt.Errorf("%w: computed %d > limit %d", ErrInputCapExceeded, computed, limit)
		}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
	return nil
}

// SpotPrice is the marginal price of the output asset in units of the input
// asset.
func SpotPrice(weightIn float64, balanceIn uint64, weightOut float64, balanceOut uint64) (float64, error) {
	if err := validWeight(weightIn); err != nil {
		return 0, err
	}
	if err := validWeight(weightOut); err != nil {
		return 0, err
	}
	if balanceIn == 0 || balanceOut == 0 {
		return 0, ErrZeroBalance
	}
	return (float64(balanceIn) / weightIn) / (float64(balanceOut) / weightOut), nil
}

// toBalance rounds half to even and converts to smallest units.
func toBalance(v float64) (uint64, error) {
	r := math.RoundToEven(v)
	if math.IsNaN(r) || r < 0 || r >= maxUint64Float {
		return 0, fmt.Errorf("%w: balance %v", ErrArithmeticOverflow, v)
	}
	return uint64(r), nil
}

func validWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return ErrInvalidWeight
	}
	return nil
}
