// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

// Authorizer decides whether an authenticated actor may perform an
// operation.
type Authorizer interface {
	// Authorize returns nil if [actor] may act on behalf of [principal].
	Authorize(ctx context.Context, im state.Immutable, actor codec.Address, principal codec.Address) error
	// AuthorizeManager returns nil if [actor] holds the privileged role:
	// the configured manager, or the bootstrap principal while the pool is
	// unconfigured.
	AuthorizeManager(ctx context.Context, im state.Immutable, actor codec.Address) error
	// AuthorizeBootstrap returns nil if [actor] is the bootstrap principal.
	AuthorizeBootstrap(actor codec.Address) error
}

var _ Authorizer = (*Policy)(nil)

// Policy is the default Authorizer. Every actor may act as itself and the
// configured manager may act for anyone.
type Policy struct {
	bootstrap codec.Address
}

func NewPolicy(bootstrap codec.Address) *Policy {
	return &Policy{bootstrap: bootstrap}
}

func (p *Policy) Authorize(ctx context.Context, im state.Immutable, actor codec.Address, principal codec.Address) error {
	if actor == principal {
		return nil
	}
	cfg, ok, err := storage.GetConfig(ctx, im)
	if err != nil {
		return err
	}
	if ok && actor == cfg.Manager {
		return nil
	}
	return fmt.Errorf("%w: %s may not act as %s", ErrAuthorizationDenied, actor, principal)
}

func (p *Policy) AuthorizeManager(ctx context.Context, im state.Immutable, actor codec.Address) error {
	cfg, ok, err := storage.GetConfig(ctx, im)
	if err != nil {
		return err
	}
	if ok {
		if actor == cfg.Manager {
			return nil
		}
		return fmt.Errorf("%w: %s is not the manager", ErrAuthorizationDenied, actor)
	}
	return p.AuthorizeBootstrap(actor)
}

func (p *Policy) AuthorizeBootstrap(actor codec.Address) error {
	if p.bootstrap == codec.EmptyAddress || actor != p.bootstrap {
		return fmt.Errorf("%w: %s is not the bootstrap principal", ErrAuthorizationDenied, actor)
	}
	return nil
}
