// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "errors"

var (
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrInvalidAuth         = errors.New("invalid auth")
)
