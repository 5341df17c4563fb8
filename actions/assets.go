// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

var (
	_ Action      = (*RegisterAsset)(nil)
	_ Action      = (*DeregisterAsset)(nil)
	_ codec.Typed = (*AssetResult)(nil)
)

type RegisterAsset struct {
	// Chain defaults to the pool's home chain.
	Chain    string        `json:"chain"`
	Contract codec.Address `json:"contract"`
	Symbol   string        `json:"symbol"`
	// Weight may be zero, in which case the first deposit must set one.
	Weight   float64 `json:"weight"`
	Metadata string  `json:"metadata"`
}

func (*RegisterAsset) GetTypeID() uint8 {
	return RegisterAssetID
}

func (r *RegisterAsset) Marshal(p *codec.Packer) {
	p.PackString(r.Chain)
	p.PackAddress(r.Contract)
	p.PackString(r.Symbol)
	p.PackFloat64(r.Weight)
	p.PackString(r.Metadata)
}

func UnmarshalRegisterAsset(p *codec.Packer) (Action, error) {
	var r RegisterAsset
	r.Chain = p.UnpackString(consts.MaxChainLen, false)
	p.UnpackAddress(&r.Contract)
	r.Symbol = p.UnpackString(consts.MaxSymbolLen, true)
	r.Weight = p.UnpackFloat64()
	r.Metadata = p.UnpackString(consts.MaxMetadataLen, false)
	return &r, p.Err()
}

func (r *RegisterAsset) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().AuthorizeManager(ctx, mu, actor); err != nil {
		return nil, err
	}
	asset, err := rt.Registry().Register(ctx, mu, storage.Identity{
		Chain:    r.Chain,
		Contract: r.Contract,
		Symbol:   r.Symbol,
	}, r.Weight, r.Metadata)
	if err != nil {
		return nil, err
	}
	return &AssetResult{Asset: *asset, ShareSymbol: asset.ShareSymbol()}, nil
}

type DeregisterAsset struct {
	TokenID uint64 `json:"tokenID"`
	Reason  string `json:"reason"`
}

func (*DeregisterAsset) GetTypeID() uint8 {
	return DeregisterAssetID
}

func (d *DeregisterAsset) Marshal(p *codec.Packer) {
	p.PackUint64(d.TokenID)
	p.PackString(d.Reason)
}

func UnmarshalDeregisterAsset(p *codec.Packer) (Action, error) {
	var d DeregisterAsset
	d.TokenID = p.UnpackUint64(true)
	d.Reason = p.UnpackString(consts.MaxMemoLen, false)
	return &d, p.Err()
}

func (d *DeregisterAsset) Execute(
	ctx context.Context,
	rt Runtime,
	mu state.Mutable,
	_ int64,
	actor codec.Address,
) (codec.Typed, error) {
	if err := rt.Authorizer().AuthorizeManager(ctx, mu, actor); err != nil {
		return nil, err
	}
	asset, err := rt.Registry().Deregister(ctx, mu, d.TokenID)
	if err != nil {
		return nil, err
	}
	return &AssetResult{Asset: *asset, ShareSymbol: asset.ShareSymbol(), Removed: true}, nil
}

type AssetResult struct {
	Asset       registry.Asset `json:"asset"`
	ShareSymbol string         `json:"shareSymbol"`
	Removed     bool           `json:"removed,omitempty"`
}

func (a *AssetResult) GetTypeID() uint8 {
	if a.Removed {
		return DeregisterAssetID
	}
	return RegisterAssetID
}
