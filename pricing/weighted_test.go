// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		computed uint64
		balIn    uint64
		balOut   uint64
		err      error
	}{
		{
			name: "equal weights exact in",
			input: Input{
				WeightIn: 1, BalanceIn: 1_000_000,
				WeightOut: 1, BalanceOut: 2_000_000,
				Side: ExactIn, Amount: 100_000,
			},
			computed: 181_818,
			balIn:    1_100_000,
			balOut:   1_818_182,
		},
		{
			name: "heavier input exact in",
			input: Input{
				WeightIn: 2, BalanceIn: 1_000_000,
				WeightOut: 1, BalanceOut: 1_000_000,
				Side: ExactIn, Amount: 50_000,
			},
			computed: 92_971,
			balIn:    1_050_000,
			balOut:   907_029,
		},
		{
			name: "heavier input exact out",
			input: Input{
				WeightIn: 2, BalanceIn: 1_000_000,
				WeightOut: 1, BalanceOut: 1_000_000,
				Side: ExactOut, Amount: 50_000,
			},
			computed: 25_978,
			balIn:    1_025_978,
			balOut:   950_000,
		},
		{
			name: "exact out from half weighted pool",
			input: Input{
				WeightIn: 1, BalanceIn: 100_000,
				WeightOut: 0.5, BalanceOut: 50_000,
				Side: ExactOut, Amount: 2_000,
			},
			computed: 2_062,
			balIn:    102_062,
			balOut:   48_000,
		},
		{
			name: "exact in into half weighted pool",
			input: Input{
				WeightIn: 1, BalanceIn: 102_062,
				WeightOut: 0.5, BalanceOut: 48_000,
				Side: ExactIn, Amount: 2_500,
			},
			computed: 2_268,
			balIn:    104_562,
			balOut:   45_732,
		},
		{
			name: "exact out drains pool",
			input: Input{
				WeightIn: 1, BalanceIn: 100,
				WeightOut: 1, BalanceOut: 100,
				Side: ExactOut, Amount: 100,
			},
			err: ErrInsufficientPoolBalance,
		},
		{
			name: "zero input balance",
			input: Input{
				WeightIn: 1, BalanceIn: 0,
				WeightOut: 1, BalanceOut: 100,
				Side: ExactIn, Amount: 1,
			},
			err: ErrZeroBalance,
		},
		{
			name: "zero weight",
			input: Input{
				WeightIn: 0, BalanceIn: 100,
				WeightOut: 1, BalanceOut: 100,
				Side: ExactIn, Amount: 1,
			},
			err: ErrInvalidWeight,
		},
		{
			name: "nan weight",
			input: Input{
				WeightIn: 1, BalanceIn: 100,
				WeightOut: math.NaN(), BalanceOut: 100,
				Side: ExactIn, Amount: 1,
			},
			err: ErrInvalidWeight,
		},
		{
			name: "zero amount",
			input: Input{
				WeightIn: 1, BalanceIn: 100,
				WeightOut: 1, BalanceOut: 100,
				Side: ExactIn,
			},
			err: ErrZeroAmount,
		},
		{
			name: "input balance overflow",
			input: Input{
				WeightIn: 1, BalanceIn: math.MaxUint64,
				WeightOut: 1, BalanceOut: 100,
				Side: ExactIn, Amount: 1,
			},
			err: ErrArithmeticOverflow,
		},
		{
			name: "required input overflow",
			input: Input{
				WeightIn: 0.0001, BalanceIn: math.MaxUint64 / 2,
				WeightOut: 1, BalanceOut: 1_000,
				Side: ExactOut, Amount: 999,
			},
			err: ErrArithmeticOverflow,
		},
		{
			name: "unknown side",
			input: Input{
				WeightIn: 1, BalanceIn: 100,
				WeightOut: 1, BalanceOut: 100,
				Side: Side(9), Amount: 1,
			},
			err: ErrInvalidSide,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			r, err := Compute(tt.input)
			if tt.err != nil {
				require.ErrorIs(err, tt.err)
				return
			}
			require.NoError(err)
			require.Equal(tt.computed, r.Computed)
			require.Equal(tt.balIn, r.BalanceIn)
			require.Equal(tt.balOut, r.BalanceOut)
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	require := require.New(t)
	in := Input{
		WeightIn: 0.75, BalanceIn: 123_456_789,
		WeightOut: 1.25, BalanceOut: 987_654_321,
		Side: ExactIn, Amount: 5_000_000,
	}
	first, err := Compute(in)
	require.NoError(err)
	for i := 0; i < 10; i++ {
		again, err := Compute(in)
		require.NoError(err)
		require.Equal(first, again)
	}
}

func TestEqualWeightConservation(t *testing.T) {
	require := require.New(t)
	for _, amount := range []uint64{1, 10, 1_000, 77_777, 500_000} {
		r, err := Compute(Input{
			WeightIn: 1, BalanceIn: 1_000_000,
			WeightOut: 1, BalanceOut: 2_000_000,
			Side: ExactIn, Amount: amount,
		})
		require.NoError(err)
		before := float64(1_000_000) * float64(2_000_000)
		after := float64(r.BalanceIn) * float64(r.BalanceOut)
		// rounding moves the output balance by at most half a unit
		require.InDelta(before, after, float64(r.BalanceIn)/2+1)
	}
}

func TestCheckLimit(t *testing.T) {
	require := require.New(t)
	require.NoError(CheckLimit(ExactIn, 10, 10))
	require.ErrorIs(CheckLimit(ExactIn, 9, 10), ErrSlippageFloorViolated)
	require.NoError(CheckLimit(ExactOut, 10, 10))
	require.ErrorIs(CheckLimit(ExactOut, 11, 10), ErrInputCapExceeded)
	require.ErrorIs(CheckLimit(Side(3), 1, 1), ErrInvalidSide)
}

func TestDepositWithdrawWeight(t *testing.T) {
	require := require.New(t)

	w, err := DepositWeight(1, 50_000, 100_000)
	require.NoError(err)
	require.InDelta(1.5, w, 1e-12)

	_, err = DepositWeight(1, 10, 0)
	require.ErrorIs(err, ErrZeroWeightRequiresBalance)
	_, err = DepositWeight(0, 10, 10)
	require.ErrorIs(err, ErrInvalidWeight)

	w, err = WithdrawWeight(1, 50_000, 100_000)
	require.NoError(err)
	require.InDelta(0.5, w, 1e-12)

	_, err = WithdrawWeight(1, 100_000, 100_000)
	require.ErrorIs(err, ErrInsufficientPoolBalance)
}

func TestDepositPreservesSpotPrice(t *testing.T) {
	require := require.New(t)

	before, err := SpotPrice(1, 100_000, 0.5, 50_000)
	require.NoError(err)

	w, err := DepositWeight(1, 40_000, 100_000)
	require.NoError(err)
	after, err := SpotPrice(w, 140_000, 0.5, 50_000)
	require.NoError(err)
	require.InEpsilon(before, after, 1e-12)

	w, err = WithdrawWeight(w, 70_000, 140_000)
	require.NoError(err)
	after, err = SpotPrice(w, 70_000, 0.5, 50_000)
	require.NoError(err)
	require.InEpsilon(before, after, 1e-12)
}

func TestSide(t *testing.T) {
	require := require.New(t)

	for _, s := range []Side{ExactIn, ExactOut} {
		text, err := s.MarshalText()
		require.NoError(err)
		var parsed Side
		require.NoError(parsed.UnmarshalText(text))
		require.Equal(s, parsed)
	}
	_, err := ParseSide("both")
	require.ErrorIs(err, ErrInvalidSide)
}
