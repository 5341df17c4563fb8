// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name            = "oswaps"
	JSONRPCEndpoint = "/ext/oswaps"

	defaultPendingLimit = 100
	maxPendingLimit     = 1_000
)
