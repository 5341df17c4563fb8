// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package matcher

import "errors"

var (
	ErrMalformedMemo     = errors.New("malformed memo")
	ErrStaleNonce        = errors.New("stale nonce")
	ErrNoMatchingRequest = errors.New("no matching request")
	ErrIdentityMismatch  = errors.New("transferred token does not match request")
	ErrAmountMismatch    = errors.New("transferred amount does not match request")
	ErrIdenticalAssets   = errors.New("input and output assets are identical")
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrMemoTooLong       = errors.New("memo too long")
)
