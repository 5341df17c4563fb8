// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package liquidity

import (
	"context"
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

// Outcome describes the effect of a deposit or withdrawal on one asset.
type Outcome struct {
	TokenID      uint64  `json:"tokenID"`
	Shares       uint64  `json:"shares"`
	Weight       float64 `json:"weight"`
	ShareBalance uint64  `json:"shareBalance"`
	ShareSupply  uint64  `json:"shareSupply"`
}

// Accountant maintains share balances, share supply and asset weights. It
// never moves tokens: callers settle against the ledger and pass the pool
// balance the asset had before the tokens moved.
type Accountant struct {
	policy IssuancePolicy
}

// New returns an Accountant using [policy], or FlatIssuance when nil.
func New(policy IssuancePolicy) *Accountant {
	if policy == nil {
		policy = FlatIssuance{}
	}
	return &Accountant{policy: policy}
}

// Deposit credits [owner] with shares for [amount] and updates the weight of
// [asset]. A positive [weight] replaces the current weight, otherwise the
// weight grows with the balance so the marginal price is unchanged.
func (a *Accountant) Deposit(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	asset *registry.Asset,
	amount uint64,
	weight float64,
	balanceBefore uint64,
) (*Outcome, error) {
	if amount == 0 {
		return nil, pricing.ErrZeroAmount
	}
	newWeight := weight
	if weight > 0 {
		if err := pricing.ValidateWeight(weight); err != nil {
			return nil, fmt.Errorf("%w: %v", err, weight)
		}
	} else {
		w, err := pricing.DepositWeight(asset.Weight, amount, balanceBefore)
		if err != nil {
			return nil, err
		}
		newWeight = w
	}

	supply, err := storage.GetShareSupply(ctx, mu, asset.TokenID)
	if err != nil {
		return nil, err
	}
	shares, err := a.policy.Mint(amount, supply, balanceBefore)
	if err != nil {
		return nil, err
	}
	if shares == 0 {
		return nil, fmt.Errorf("%w: deposit of %d mints no shares", ErrZeroShares, amount)
	}
	supply, err = smath.Add(supply, shares)
	if err != nil {
		return nil, fmt.Errorf("%w: share supply", pricing.ErrArithmeticOverflow)
	}
	balance, err := storage.GetShareBalance(ctx, mu, owner, asset.TokenID)
	if err != nil {
		return nil, err
	}
	balance, err = smath.Add(balance, shares)
	if err != nil {
		return nil, fmt.Errorf("%w: share balance", pricing.ErrArithmeticOverflow)
	}
	if err := storage.SetShareSupply(ctx, mu, asset.TokenID, supply); err != nil {
		return nil, err
	}
	if err := storage.SetShareBalance(ctx, mu, owner, asset.TokenID, balance); err != nil {
		return nil, err
	}

	if err := registry.SetWeight(ctx, mu, asset, newWeight); err != nil {
		return nil, err
	}
	return &Outcome{
		TokenID:      asset.TokenID,
		Shares:       shares,
		Weight:       newWeight,
		ShareBalance: balance,
		ShareSupply:  supply,
	}, nil
}

// Withdraw burns the shares backing [amount] from [owner] and lowers the
// weight of [asset]. The withdrawal must leave a nonzero pool balance.
func (a *Accountant) Withdraw(
	ctx context.Context,
	mu state.Mutable,
	owner codec.Address,
	asset *registry.Asset,
	amount uint64,
	weight float64,
	balanceBefore uint64,
) (*Outcome, error) {
	if amount == 0 {
		return nil, pricing.ErrZeroAmount
	}
	newWeight := weight
	if weight > 0 {
		if err := pricing.ValidateWeight(weight); err != nil {
			return nil, fmt.Errorf("%w: %v", err, weight)
		}
		if amount >= balanceBefore {
			return nil, fmt.Errorf("%w: withdraw %d from %d", pricing.ErrInsufficientPoolBalance, amount, balanceBefore)
		}
	} else {
		w, err := pricing.WithdrawWeight(asset.Weight, amount, balanceBefore)
		if err != nil {
			return nil, err
		}
		newWeight = w
	}

	supply, err := storage.GetShareSupply(ctx, mu, asset.TokenID)
	if err != nil {
		return nil, err
	}
	shares, err := a.policy.Burn(amount, supply, balanceBefore)
	if err != nil {
		return nil, err
	}
	balance, err := storage.GetShareBalance(ctx, mu, owner, asset.TokenID)
	if err != nil {
		return nil, err
	}
	if shares > balance || shares > supply {
		return nil, fmt.Errorf(
			"%w: burn %d %s, holding %d",
			ErrInsufficientShareBalance,
			shares,
			asset.ShareSymbol(),
			balance,
		)
	}
	balance -= shares
	supply -= shares
	if err := storage.SetShareSupply(ctx, mu, asset.TokenID, supply); err != nil {
		return nil, err
	}
	if err := storage.SetShareBalance(ctx, mu, owner, asset.TokenID, balance); err != nil {
		return nil, err
	}

	if err := registry.SetWeight(ctx, mu, asset, newWeight); err != nil {
		return nil, err
	}
	return &Outcome{
		TokenID:      asset.TokenID,
		Shares:       shares,
		Weight:       newWeight,
		ShareBalance: balance,
		ShareSupply:  supply,
	}, nil
}

func (*Accountant) ShareBalance(ctx context.Context, im state.Immutable, owner codec.Address, tokenID uint64) (uint64, error) {
	return storage.GetShareBalance(ctx, im, owner, tokenID)
}

func (*Accountant) ShareSupply(ctx context.Context, im state.Immutable, tokenID uint64) (uint64, error) {
	return storage.GetShareSupply(ctx, im, tokenID)
}
