// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

var (
	ErrTokenNotFound       = errors.New("token not found")
	ErrTokenExists         = errors.New("token already exists")
	ErrInvalidSymbol       = errors.New("invalid symbol")
	ErrInvalidPrecision    = errors.New("invalid precision")
	ErrZeroAmount          = errors.New("amount must be positive")
	ErrSupplyExceeded      = errors.New("max supply exceeded")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("cannot transfer to self")
	ErrMemoTooLong         = errors.New("memo too long")
	ErrIssueToReceiver     = errors.New("cannot issue into a receiver account")
)
