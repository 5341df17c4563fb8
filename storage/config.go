// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/state"
)

// Config is the pool's singleton configuration row. The nonce and token id
// counters live here so every allocation is part of the same unit of work as
// the record it creates.
type Config struct {
	Manager codec.Address `json:"manager"`
	// NonceLifetime is the validity of a pending request in milliseconds.
	NonceLifetime int64  `json:"nonceLifetime"`
	Chain         string `json:"chain"`
	LastNonce     uint64 `json:"lastNonce"`
	LastTokenID   uint64 `json:"lastTokenID"`
}

func (c *Config) Marshal() []byte {
	p := newWriter(codec.AddressLen + 3*consts.Uint64Len + codec.StringLen(c.Chain))
	p.PackAddress(c.Manager)
	p.PackInt64(c.NonceLifetime)
	p.PackString(c.Chain)
	p.PackUint64(c.LastNonce)
	p.PackUint64(c.LastTokenID)
	return p.Bytes()
}

func UnmarshalConfig(b []byte) (*Config, error) {
	var c Config
	p := newReader(b)
	p.UnpackAddress(&c.Manager)
	c.NonceLifetime = p.UnpackInt64(false)
	c.Chain = p.UnpackString(consts.MaxChainLen, true)
	c.LastNonce = p.UnpackUint64(false)
	c.LastTokenID = p.UnpackUint64(false)
	return &c, p.Done()
}

// GetConfig returns the configuration and whether it exists.
func GetConfig(ctx context.Context, im state.Immutable) (*Config, bool, error) {
	v, ok, err := getRecord(ctx, im, configKey)
	if err != nil || !ok {
		return nil, false, err
	}
	c, err := UnmarshalConfig(v)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// RequireConfig returns the configuration or ErrNotConfigured.
func RequireConfig(ctx context.Context, im state.Immutable) (*Config, error) {
	c, ok, err := GetConfig(ctx, im)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotConfigured
	}
	return c, nil
}

// SetConfig stores [c]. The manager and chain are required so the row can
// always be read back.
func SetConfig(ctx context.Context, mu state.Mutable, c *Config) error {
	if c.Manager == codec.EmptyAddress {
		return fmt.Errorf("%w: config manager", ErrIncompleteRecord)
	}
	if len(c.Chain) == 0 {
		return fmt.Errorf("%w: config chain", ErrIncompleteRecord)
	}
	return mu.Insert(ctx, configKey, c.Marshal())
}

// NextNonce advances the nonce counter, skipping the internal transfer
// sentinel, and persists the configuration.
func NextNonce(ctx context.Context, mu state.Mutable, c *Config) (uint64, error) {
	c.LastNonce++
	if c.LastNonce == consts.InternalTransferNonce {
		c.LastNonce++
	}
	return c.LastNonce, SetConfig(ctx, mu, c)
}

// NextTokenID advances the token id counter and persists the configuration.
func NextTokenID(ctx context.Context, mu state.Mutable, c *Config) (uint64, error) {
	c.LastTokenID++
	return c.LastTokenID, SetConfig(ctx, mu, c)
}
