// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import "errors"

var (
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrMissingBootstrap = errors.New("missing bootstrap principal")
)
