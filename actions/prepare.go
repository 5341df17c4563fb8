// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/state"
)

var (
	_ Action      = (*PrepareDeposit)(nil)
	_ codec.Typed = (*PrepareDepositResult)(nil)
	_ Action      = (*PrepareExchange)(nil)
	_ codec.Typed = (*PrepareExchangeResult)(nil)
)

// PrepareDeposit announces a single-sided deposit. The depositor then
// transfers exactly Amount to the pool with the returned nonce as memo.
type PrepareDeposit struct {
	Depositor codec.Address `json:"depositor"`
	TokenID   uint64        `json:"tokenID"`
	Amount    string        `json:"amount"`
	// Weight overrides the asset weight and requires the manager. Zero
	// derives the weight from the balance change.
	Weight float64 `json:"weight"`
}

func (*PrepareDeposit) GetTypeID() uint8 {
	return PrepareDepositID
}

func (d *PrepareDeposit) Marshal(p *codec.Packer) {
	p.PackAddress(d.Depositor)
	p.PackUint64(d.TokenID)
	p.PackString(d.Amount)
	p.PackFloat64(d.Weight)
}

func UnmarshalPrepareDeposit(p *codec.Packer) (Action, error) {
	var d PrepareDeposit
	p.UnpackAddress(&d.Depositor)
	d.TokenID = p.UnpackUint64(true)
	d.Amount = p.UnpackString(consts.MaxMemoLen, true)
	d.Weight = p.UnpackFloat64()
	return &d, p.Err()
}

func (d *PrepareDeposit) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().Authorize(ctx, mu, actor, d.Depositor); err != nil {
		return nil, err
	}
	if d.Weight != 0 {
		if err := rt.Authorizer().AuthorizeManager(ctx, mu, actor); err != nil {
			return nil, fmt.Errorf("%w: explicit weight", err)
		}
	}
	prepared, err := rt.Matcher().PrepareDeposit(ctx, mu, timestamp, d.Depositor, d.TokenID, d.Amount, d.Weight)
	if err != nil {
		return nil, err
	}
	return &PrepareDepositResult{PreparedDeposit: *prepared}, nil
}

type PrepareDepositResult struct {
	matcher.PreparedDeposit
}

func (*PrepareDepositResult) GetTypeID() uint8 {
	return PrepareDepositID
}

// PrepareExchange announces an exchange. The sender then transfers the input
// token to the pool with the returned nonce as memo.
type PrepareExchange struct {
	Sender     codec.Address `json:"sender"`
	InTokenID  uint64        `json:"inTokenID"`
	InAmount   string        `json:"inAmount"`
	Recipient  codec.Address `json:"recipient"`
	OutTokenID uint64        `json:"outTokenID"`
	OutAmount  string        `json:"outAmount"`
	Exact      pricing.Side  `json:"exact"`
	Memo       string        `json:"memo"`
}

func (*PrepareExchange) GetTypeID() uint8 {
	return PrepareExchangeID
}

func (x *PrepareExchange) Marshal(p *codec.Packer) {
	p.PackAddress(x.Sender)
	p.PackUint64(x.InTokenID)
	p.PackString(x.InAmount)
	p.PackAddress(x.Recipient)
	p.PackUint64(x.OutTokenID)
	p.PackString(x.OutAmount)
	p.PackByte(byte(x.Exact))
	p.PackString(x.Memo)
}

func UnmarshalPrepareExchange(p *codec.Packer) (Action, error) {
	var x PrepareExchange
	p.UnpackAddress(&x.Sender)
	x.InTokenID = p.UnpackUint64(true)
	x.InAmount = p.UnpackString(consts.MaxMemoLen, true)
	p.UnpackAddress(&x.Recipient)
	x.OutTokenID = p.UnpackUint64(true)
	x.OutAmount = p.UnpackString(consts.MaxMemoLen, true)
	x.Exact = pricing.Side(p.UnpackByte())
	x.Memo = p.UnpackString(consts.MaxMemoLen, false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	if !x.Exact.Valid() {
		return nil, fmt.Errorf("%w: %d", pricing.ErrInvalidSide, x.Exact)
	}
	return &x, nil
}

// Request converts the action into the matcher's exchange request.
func (x *PrepareExchange) Request() *matcher.ExchangeRequest {
	return &matcher.ExchangeRequest{
		Sender:     x.Sender,
		InTokenID:  x.InTokenID,
		InAmount:   x.InAmount,
		Recipient:  x.Recipient,
		OutTokenID: x.OutTokenID,
		OutAmount:  x.OutAmount,
		Exact:      x.Exact,
		Memo:       x.Memo,
	}
}

func (x *PrepareExchange) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	timestamp int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().Authorize(ctx, mu, actor, x.Sender); err != nil {
		return nil, err
	}
	prepared, err := rt.Matcher().PrepareExchange(ctx, mu, timestamp, x.Request())
	if err != nil {
		return nil, err
	}
	return &PrepareExchangeResult{PreparedExchange: *prepared}, nil
}

type PrepareExchangeResult struct {
	matcher.PreparedExchange
}

func (*PrepareExchangeResult) GetTypeID() uint8 {
	return PrepareExchangeID
}
