// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/liquidity"
)

const defaultRequestValidity = 60_000 // ms

type Config struct {
	// Bootstrap may configure an unconfigured pool and reset it.
	Bootstrap codec.Address
	// RequestValidity is the furthest in the future a signed request may
	// expire, in milliseconds.
	RequestValidity int64
	// Issuance decides how many shares a deposit mints. Nil mints one share
	// per unit deposited.
	Issuance liquidity.IssuancePolicy
}

func NewDefaultConfig() Config {
	return Config{RequestValidity: defaultRequestValidity}
}
