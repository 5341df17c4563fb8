// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrNotConfigured    = errors.New("pool is not configured")
	ErrCorruptKey       = errors.New("corrupt key")
	ErrCorruptValue     = errors.New("corrupt value")
	ErrNegativeExpiry   = errors.New("expiry must not be negative")
	ErrInvalidBalance   = errors.New("invalid balance")
	ErrUnknownDatabase  = errors.New("unknown database type")
	ErrIncompleteRecord = errors.New("record is missing a required field")
)
