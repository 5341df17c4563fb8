// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"fmt"
	"math"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

type Asset = storage.Asset

// Registry owns the set of pooled assets. Token ids are allocated from the
// configuration counter and are never reused.
type Registry struct {
	ledger ledger.Service
}

func New(l ledger.Service) *Registry {
	return &Registry{ledger: l}
}

// Register adds an asset. An asset registered with a zero [weight] stays
// inactive until its first deposit sets one. An empty chain means the pool's
// home chain.
func (r *Registry) Register(
	ctx context.Context,
	mu state.Mutable,
	identity storage.Identity,
	weight float64,
	metadata string,
) (*storage.Asset, error) {
	cfg, err := storage.RequireConfig(ctx, mu)
	if err != nil {
		return nil, err
	}
	if len(identity.Chain) == 0 {
		identity.Chain = cfg.Chain
	}
	if identity.Chain != cfg.Chain {
		return nil, fmt.Errorf("%w: %q (supported %q)", ErrUnsupportedChain, identity.Chain, cfg.Chain)
	}
	if len(metadata) > consts.MaxMetadataLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrMetadataTooLong, len(metadata), consts.MaxMetadataLen)
	}
	if weight != 0 {
		if err := pricing.ValidateWeight(weight); err != nil {
			return nil, err
		}
	}
	if _, exists, err := storage.GetTokenIDByIdentity(ctx, mu, identity); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateIdentity, identity.Symbol, identity.Chain)
	}
	if _, err := r.ledger.Stat(ctx, mu, TokenOf(identity)); err != nil {
		return nil, err
	}

	tokenID, err := storage.NextTokenID(ctx, mu, cfg)
	if err != nil {
		return nil, err
	}
	asset := &storage.Asset{
		TokenID:  tokenID,
		Identity: identity,
		Active:   weight > 0,
		Weight:   weight,
		Metadata: metadata,
	}
	if err := storage.SetAsset(ctx, mu, asset); err != nil {
		return nil, err
	}
	if err := storage.SetIdentity(ctx, mu, identity, tokenID); err != nil {
		return nil, err
	}
	return asset, nil
}

// Deregister removes an asset. Assets with outstanding liquidity shares
// cannot be removed.
func (*Registry) Deregister(ctx context.Context, mu state.Mutable, tokenID uint64) (*storage.Asset, error) {
	asset, err := Get(ctx, mu, tokenID)
	if err != nil {
		return nil, err
	}
	supply, err := storage.GetShareSupply(ctx, mu, tokenID)
	if err != nil {
		return nil, err
	}
	if supply > 0 {
		return nil, fmt.Errorf("%w: %d %s outstanding", ErrOutstandingShares, supply, asset.ShareSymbol())
	}
	return asset, storage.DeleteAsset(ctx, mu, asset)
}

// SetWeight replaces the weight of [asset], activates it and stores it.
func SetWeight(ctx context.Context, mu state.Mutable, asset *Asset, weight float64) error {
	if err := pricing.ValidateWeight(weight); err != nil {
		return fmt.Errorf("%w: %v", err, weight)
	}
	asset.Weight = weight
	asset.Active = true
	return storage.SetAsset(ctx, mu, asset)
}

// Get returns the asset with [tokenID] or ErrUnknownAsset.
func Get(ctx context.Context, im state.Immutable, tokenID uint64) (*storage.Asset, error) {
	asset, ok, err := storage.GetAsset(ctx, im, tokenID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAsset, tokenID)
	}
	return asset, nil
}

func GetByIdentity(ctx context.Context, im state.Immutable, identity storage.Identity) (*storage.Asset, error) {
	tokenID, ok, err := storage.GetTokenIDByIdentity(ctx, im, identity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownAsset, identity.Symbol, identity.Chain)
	}
	return Get(ctx, im, tokenID)
}

func List(ctx context.Context, im state.Immutable) ([]*storage.Asset, error) {
	return storage.ListAssets(ctx, im)
}

// TokenOf is the ledger token backing an asset identity.
func TokenOf(identity storage.Identity) ledger.Token {
	return ledger.Token{Contract: identity.Contract, Symbol: identity.Symbol}
}

// ShareToken is the ledger identity of the liquidity shares of [asset].
func ShareToken(asset *Asset) ledger.Token {
	return ledger.Token{Contract: auth.PoolAddress, Symbol: asset.ShareSymbol()}
}

// Precision returns the number of decimals of the asset's ledger token.
func (r *Registry) Precision(ctx context.Context, im state.Immutable, asset *storage.Asset) (uint8, error) {
	stat, err := r.ledger.Stat(ctx, im, TokenOf(asset.Identity))
	if err != nil {
		return 0, err
	}
	return stat.Precision, nil
}

// PoolBalance is the pool's current ledger balance of the asset.
func (r *Registry) PoolBalance(ctx context.Context, im state.Immutable, asset *storage.Asset) (uint64, error) {
	return r.ledger.Balance(ctx, im, auth.PoolAddress, TokenOf(asset.Identity))
}

// RequireActive returns ErrInactiveAsset unless the asset can be priced.
func RequireActive(asset *Asset) error {
	if !asset.Active || !(asset.Weight > 0) || math.IsInf(asset.Weight, 0) {
		return fmt.Errorf("%w: %d", ErrInactiveAsset, asset.TokenID)
	}
	return nil
}
