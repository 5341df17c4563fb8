// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

var (
	_ Action      = (*Configure)(nil)
	_ codec.Typed = (*ConfigResult)(nil)
	_ Action      = (*ResetAll)(nil)
	_ codec.Typed = (*ResetResult)(nil)
)

// Configure creates or replaces the pool configuration. The first call must
// come from the bootstrap principal, later calls from the manager. Counters
// survive reconfiguration.
type Configure struct {
	Manager codec.Address `json:"manager"`
	// NonceLifetime is in milliseconds.
	NonceLifetime int64  `json:"nonceLifetime"`
	Chain         string `json:"chain"`
}

func (*Configure) GetTypeID() uint8 {
	return ConfigureID
}

func (c *Configure) Marshal(p *codec.Packer) {
	p.PackAddress(c.Manager)
	p.PackInt64(c.NonceLifetime)
	p.PackString(c.Chain)
}

func UnmarshalConfigure(p *codec.Packer) (Action, error) {
	var c Configure
	p.UnpackAddress(&c.Manager)
	c.NonceLifetime = p.UnpackInt64(true)
	c.Chain = p.UnpackString(consts.MaxChainLen, false)
	return &c, p.Err()
}

func (c *Configure) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().AuthorizeManager(ctx, mu, actor); err != nil {
		return nil, err
	}
	if c.Manager == codec.EmptyAddress {
		return nil, ErrMissingManager
	}
	if c.NonceLifetime <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNonceLifetime, c.NonceLifetime)
	}
	chain := c.Chain
	if len(chain) == 0 {
		chain = consts.DefaultChain
	}
	if len(chain) > consts.MaxChainLen {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChain, chain)
	}

	cfg, ok, err := storage.GetConfig(ctx, mu)
	if err != nil {
		return nil, err
	}
	if !ok {
		cfg = &storage.Config{LastNonce: consts.InitialNonce}
	}
	cfg.Manager = c.Manager
	cfg.NonceLifetime = c.NonceLifetime
	cfg.Chain = chain
	if err := storage.SetConfig(ctx, mu, cfg); err != nil {
		return nil, err
	}
	return &ConfigResult{Config: *cfg}, nil
}

type ConfigResult struct {
	Config storage.Config `json:"config"`
}

func (*ConfigResult) GetTypeID() uint8 {
	return ConfigureID
}

// ResetAll clears every pool table. Ledger balances are untouched.
type ResetAll struct{}

func (*ResetAll) GetTypeID() uint8 {
	return ResetAllID
}

func (*ResetAll) Marshal(*codec.Packer) {}

func UnmarshalResetAll(*codec.Packer) (Action, error) {
	return &ResetAll{}, nil
}

func (*ResetAll) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().AuthorizeBootstrap(actor); err != nil {
		return nil, err
	}
	removed := 0
	for _, prefix := range storage.PoolPrefixes {
		n, err := storage.ClearPrefix(ctx, mu, prefix)
		if err != nil {
			return nil, err
		}
		removed += n
	}
	return &ResetResult{Removed: removed}, nil
}

type ResetResult struct {
	Removed int `json:"removed"`
}

func (*ResetResult) GetTypeID() uint8 {
	return ResetAllID
}
