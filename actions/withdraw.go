// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/utils"
)

var (
	_ Action      = (*Withdraw)(nil)
	_ codec.Typed = (*WithdrawResult)(nil)
)

// Withdraw burns liquidity shares of Owner and pays out Amount of the asset.
type Withdraw struct {
	Owner   codec.Address `json:"owner"`
	TokenID uint64        `json:"tokenID"`
	Amount  string        `json:"amount"`
	// Weight overrides the asset weight and requires the manager.
	Weight float64 `json:"weight"`
}

func (*Withdraw) GetTypeID() uint8 {
	return WithdrawID
}

func (w *Withdraw) Marshal(p *codec.Packer) {
	p.PackAddress(w.Owner)
	p.PackUint64(w.TokenID)
	p.PackString(w.Amount)
	p.PackFloat64(w.Weight)
}

func UnmarshalWithdraw(p *codec.Packer) (Action, error) {
	var w Withdraw
	p.UnpackAddress(&w.Owner)
	w.TokenID = p.UnpackUint64(true)
	w.Amount = p.UnpackString(consts.MaxMemoLen, true)
	w.Weight = p.UnpackFloat64()
	return &w, p.Err()
}

func (w *Withdraw) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().Authorize(ctx, mu, actor, w.Owner); err != nil {
		return nil, err
	}
	if w.Weight != 0 {
		if err := rt.Authorizer().AuthorizeManager(ctx, mu, actor); err != nil {
			return nil, fmt.Errorf("%w: explicit weight", err)
		}
	}
	asset, err := registry.Get(ctx, mu, w.TokenID)
	if err != nil {
		return nil, err
	}
	precision, err := rt.Registry().Precision(ctx, mu, asset)
	if err != nil {
		return nil, err
	}
	amount, err := utils.ParseQuantity(w.Amount, precision, asset.Identity.Symbol)
	if err != nil {
		return nil, err
	}
	before, err := rt.Registry().PoolBalance(ctx, mu, asset)
	if err != nil {
		return nil, err
	}
	outcome, err := rt.Accountant().Withdraw(ctx, mu, w.Owner, asset, amount, w.Weight, before)
	if err != nil {
		return nil, err
	}
	token := registry.TokenOf(asset.Identity)
	if err := rt.Ledger().Transfer(ctx, mu, auth.PoolAddress, w.Owner, token, amount, withdrawalMemo); err != nil {
		return nil, err
	}
	return &WithdrawResult{Outcome: *outcome, Amount: amount}, nil
}

type WithdrawResult struct {
	liquidity.Outcome
	Amount uint64 `json:"amount"`
}

func (*WithdrawResult) GetTypeID() uint8 {
	return WithdrawID
}
