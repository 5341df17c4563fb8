// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

// Typed is implemented by every action and action result so it can be routed
// by its type identifier.
type Typed interface {
	GetTypeID() uint8
}

// StringLen is the packed size of [s].
func StringLen(s string) int {
	return 2 + len(s)
}

// BytesLen is the packed size of [b].
func BytesLen(b []byte) int {
	return 4 + len(b)
}
