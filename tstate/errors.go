// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrKeyNotSpecified = errors.New("key not specified")
	ErrFinalized       = errors.New("tstate already committed or aborted")
)
