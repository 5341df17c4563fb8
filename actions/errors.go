// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrInvalidNonceLifetime = errors.New("nonce lifetime must be positive")
	ErrInvalidChain         = errors.New("invalid chain")
	ErrMissingManager       = errors.New("manager is required")
	ErrRequestExpired       = errors.New("request expired")
	ErrRequestTooFar        = errors.New("request expiry too far in the future")
)
