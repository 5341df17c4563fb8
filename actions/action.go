// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
)

// Runtime exposes the pool components to actions.
type Runtime interface {
	Ledger() *ledger.Ledger
	Registry() *registry.Registry
	Accountant() *liquidity.Accountant
	Matcher() *matcher.Matcher
	Authorizer() auth.Authorizer
}

// Action is one entry point. Execute runs inside a single unit of work: any
// error discards every mutation made through [mu].
type Action interface {
	codec.Typed

	Marshal(p *codec.Packer)
	// Execute performs the action on behalf of the authenticated [actor].
	// [timestamp] is the unit's time in unix milliseconds.
	Execute(
		ctx context.Context,
		rt Runtime,
		mu state.Mutable,
		timestamp int64,
		actor codec.Address,
	) (codec.Typed, error)
}

// Parser decodes every action defined in this package.
var Parser = newParser()

func newParser() *codec.TypeParser[Action] {
	p := codec.NewTypeParser[Action]()
	errs := []error{
		p.Register(&Configure{}, UnmarshalConfigure),
		p.Register(&ResetAll{}, UnmarshalResetAll),
		p.Register(&RegisterAsset{}, UnmarshalRegisterAsset),
		p.Register(&DeregisterAsset{}, UnmarshalDeregisterAsset),
		p.Register(&PrepareDeposit{}, UnmarshalPrepareDeposit),
		p.Register(&PrepareExchange{}, UnmarshalPrepareExchange),
		p.Register(&Withdraw{}, UnmarshalWithdraw),
		p.Register(&Transfer{}, UnmarshalTransfer),
		p.Register(&CreateToken{}, UnmarshalCreateToken),
		p.Register(&IssueToken{}, UnmarshalIssueToken),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
	return p
}

// Marshal packs [a] with its type identifier.
func Marshal(a Action) []byte {
	p := codec.NewWriter(256, consts.NetworkSizeLimit)
	p.PackByte(a.GetTypeID())
	a.Marshal(p)
	return p.Bytes()
}

// Unmarshal decodes a packed action and rejects trailing bytes.
func Unmarshal(b []byte) (Action, error) {
	p := codec.NewReader(b, len(b))
	a, err := Parser.Unpack(p)
	if err != nil {
		return nil, err
	}
	return a, p.Done()
}
