// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/utils"
)

var (
	_ Action      = (*Transfer)(nil)
	_ codec.Typed = (*TransferResult)(nil)
	_ Action      = (*CreateToken)(nil)
	_ Action      = (*IssueToken)(nil)
	_ codec.Typed = (*TokenResult)(nil)
)

// Transfer moves tokens from the actor. A transfer to the pool is matched
// against the pending request named by the trailing nonce of Memo.
type Transfer struct {
	To       codec.Address `json:"to"`
	Contract codec.Address `json:"contract"`
	Symbol   string        `json:"symbol"`
	Quantity string        `json:"quantity"`
	Memo     string        `json:"memo"`
}

func (*Transfer) GetTypeID() uint8 {
	return TransferID
}

func (t *Transfer) Marshal(p *codec.Packer) {
	p.PackAddress(t.To)
	p.PackAddress(t.Contract)
	p.PackString(t.Symbol)
	p.PackString(t.Quantity)
	p.PackString(t.Memo)
}

func UnmarshalTransfer(p *codec.Packer) (Action, error) {
	var t Transfer
	p.UnpackAddress(&t.To)
	p.UnpackAddress(&t.Contract)
	t.Symbol = p.UnpackString(consts.MaxSymbolLen, true)
	t.Quantity = p.UnpackString(consts.MaxMemoLen, true)
	t.Memo = p.UnpackString(consts.MaxMemoLen, false)
	return &t, p.Err()
}

func (t *Transfer) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	token := ledger.Token{Contract: t.Contract, Symbol: t.Symbol}
	stat, err := rt.Ledger().Stat(ctx, mu, token)
	if err != nil {
		return nil, err
	}
	amount, err := utils.ParseQuantity(t.Quantity, stat.Precision, t.Symbol)
	if err != nil {
		return nil, err
	}
	rt.Matcher().Drain()
	if err := rt.Ledger().Transfer(ctx, mu, actor, t.To, token, amount, t.Memo); err != nil {
		return nil, err
	}
	result := &TransferResult{Amount: amount}
	if fs := rt.Matcher().Drain(); len(fs) > 0 {
		result.Fulfillment = fs[len(fs)-1]
	}
	return result, nil
}

type TransferResult struct {
	Amount uint64 `json:"amount"`
	// Fulfillment is set when the transfer settled a pool request.
	Fulfillment *matcher.Fulfillment `json:"fulfillment,omitempty"`
}

func (*TransferResult) GetTypeID() uint8 {
	return TransferID
}

// CreateToken creates a ledger token whose contract is the actor.
type CreateToken struct {
	Symbol    string `json:"symbol"`
	MaxSupply uint64 `json:"maxSupply"`
	Precision uint8  `json:"precision"`
}

func (*CreateToken) GetTypeID() uint8 {
	return CreateTokenID
}

func (c *CreateToken) Marshal(p *codec.Packer) {
	p.PackString(c.Symbol)
	p.PackUint64(c.MaxSupply)
	p.PackByte(c.Precision)
}

func UnmarshalCreateToken(p *codec.Packer) (Action, error) {
	var c CreateToken
	c.Symbol = p.UnpackString(consts.MaxSymbolLen, true)
	c.MaxSupply = p.UnpackUint64(true)
	c.Precision = p.UnpackByte()
	return &c, p.Err()
}

func (c *CreateToken) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Ledger().Create(ctx, mu, actor, c.Symbol, c.MaxSupply, c.Precision); err != nil {
		return nil, err
	}
	return tokenResult(ctx, rt, mu, ledger.Token{Contract: actor, Symbol: c.Symbol}, CreateTokenID)
}

// IssueToken mints a token created by the actor.
type IssueToken struct {
	Symbol   string        `json:"symbol"`
	To       codec.Address `json:"to"`
	Quantity string        `json:"quantity"`
}

func (*IssueToken) GetTypeID() uint8 {
	return IssueTokenID
}

func (i *IssueToken) Marshal(p *codec.Packer) {
	p.PackString(i.Symbol)
	p.PackAddress(i.To)
	p.PackString(i.Quantity)
}

func UnmarshalIssueToken(p *codec.Packer) (Action, error) {
	var i IssueToken
	i.Symbol = p.UnpackString(consts.MaxSymbolLen, true)
	p.UnpackAddress(&i.To)
	i.Quantity = p.UnpackString(consts.MaxMemoLen, true)
	return &i, p.Err()
}

func (i *IssueToken) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	token := ledger.Token{Contract: actor, Symbol: i.Symbol}
	stat, err := rt.Ledger().Stat(ctx, mu, token)
	if err != nil {
		return nil, err
	}
	amount, err := utils.ParseQuantity(i.Quantity, stat.Precision, i.Symbol)
	if err != nil {
		return nil, err
	}
	if err := rt.Ledger().Issue(ctx, mu, token, i.To, amount); err != nil {
		return nil, err
	}
	return tokenResult(ctx, rt, mu, token, IssueTokenID)
}

type TokenResult struct {
	Token  ledger.Token      `json:"token"`
	Stat   storage.TokenStat `json:"stat"`
	typeID uint8
}

func (r *TokenResult) GetTypeID() uint8 {
	return r.typeID
}

func tokenResult(ctx context.Context, rt Runtime, im state.Immutable, token ledger.Token, typeID uint8) (codec.Typed, error) {
	stat, err := rt.Ledger().Stat(ctx, im, token)
	if err != nil {
		return nil, err
	}
	return &TokenResult{Token: token, Stat: *stat, typeID: typeID}, nil
}
