// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/utils"
)

// Address type prefixes. The pool address uses its own prefix so it can never
// collide with a key-derived address.
const (
	ED25519ID uint8 = 0
	PoolID    uint8 = 0xff
)

// PoolAddress is the ledger account holding every pooled token.
var PoolAddress = codec.CreateAddress(PoolID, utils.ToID([]byte(consts.Name)))
