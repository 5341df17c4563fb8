// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/utils"
)

// Identity names a token on its home chain.
type Identity struct {
	Chain    string        `json:"chain"`
	Contract codec.Address `json:"contract"`
	Symbol   string        `json:"symbol"`
}

func (i Identity) pack(p *codec.Packer) {
	p.PackString(i.Chain)
	p.PackAddress(i.Contract)
	p.PackString(i.Symbol)
}

func (i Identity) verify() error {
	switch {
	case len(i.Chain) == 0:
		return fmt.Errorf("%w: identity chain", ErrIncompleteRecord)
	case i.Contract == codec.EmptyAddress:
		return fmt.Errorf("%w: identity contract", ErrIncompleteRecord)
	case len(i.Symbol) == 0:
		return fmt.Errorf("%w: identity symbol", ErrIncompleteRecord)
	}
	return nil
}

func unpackIdentity(p *codec.Packer) Identity {
	var i Identity
	i.Chain = p.UnpackString(consts.MaxChainLen, true)
	p.UnpackAddress(&i.Contract)
	i.Symbol = p.UnpackString(consts.MaxSymbolLen, true)
	return i
}

type Asset struct {
	TokenID  uint64   `json:"tokenID"`
	Identity Identity `json:"identity"`
	Active   bool     `json:"active"`
	Weight   float64  `json:"weight"`
	Metadata string   `json:"metadata"`
}

// ShareSymbol is the symbol of the liquidity share minted against this asset.
func (a *Asset) ShareSymbol() string {
	return ShareSymbol(a.TokenID)
}

func (a *Asset) Marshal() []byte {
	p := newWriter(256)
	p.PackUint64(a.TokenID)
	a.Identity.pack(p)
	p.PackBool(a.Active)
	p.PackFloat64(a.Weight)
	p.PackString(a.Metadata)
	return p.Bytes()
}

func UnmarshalAsset(b []byte) (*Asset, error) {
	var a Asset
	p := newReader(b)
	a.TokenID = p.UnpackUint64(true)
	a.Identity = unpackIdentity(p)
	a.Active = p.UnpackBool()
	a.Weight = p.UnpackFloat64()
	a.Metadata = p.UnpackString(consts.MaxMetadataLen, false)
	return &a, p.Done()
}

// ShareSymbol derives the share symbol for [tokenID]: "LIQ" followed by the
// token id written in base 26 with digits A-Z (1 -> LIQB, 26 -> LIQBA).
func ShareSymbol(tokenID uint64) string {
	digits := []byte{}
	for {
		digits = append(digits, byte('A'+tokenID%26))
		tokenID /= 26
		if tokenID == 0 {
			break
		}
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return consts.SharePrefix + string(digits)
}

func AssetKey(tokenID uint64) []byte {
	return uint64Key(assetPrefix, tokenID)
}

// [identityPrefix] + [hash(identity)]
func IdentityKey(i Identity) []byte {
	p := newWriter(64)
	i.pack(p)
	id := utils.ToID(p.Bytes())
	k := make([]byte, 1+consts.IDLen)
	k[0] = identityPrefix
	copy(k[1:], id[:])
	return k
}

func GetAsset(ctx context.Context, im state.Immutable, tokenID uint64) (*Asset, bool, error) {
	v, ok, err := getRecord(ctx, im, AssetKey(tokenID))
	if err != nil || !ok {
		return nil, false, err
	}
	a, err := UnmarshalAsset(v)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func SetAsset(ctx context.Context, mu state.Mutable, a *Asset) error {
	if err := a.Identity.verify(); err != nil {
		return err
	}
	return mu.Insert(ctx, AssetKey(a.TokenID), a.Marshal())
}

// DeleteAsset removes the asset record and its identity index entry.
func DeleteAsset(ctx context.Context, mu state.Mutable, a *Asset) error {
	if err := mu.Remove(ctx, AssetKey(a.TokenID)); err != nil {
		return err
	}
	return mu.Remove(ctx, IdentityKey(a.Identity))
}

// ListAssets returns every asset in ascending token id order.
func ListAssets(ctx context.Context, im state.Immutable) ([]*Asset, error) {
	iter := im.NewIteratorWithPrefix([]byte{assetPrefix})
	defer iter.Release()

	assets := []*Asset{}
	for iter.Next() {
		a, err := UnmarshalAsset(iter.Value())
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, iter.Error()
}

func GetTokenIDByIdentity(ctx context.Context, im state.Immutable, i Identity) (uint64, bool, error) {
	return getUint64(ctx, im, IdentityKey(i))
}

func SetIdentity(ctx context.Context, mu state.Mutable, i Identity, tokenID uint64) error {
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, tokenID)
	return mu.Insert(ctx, IdentityKey(i), v)
}
