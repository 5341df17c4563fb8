// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package matcher

import (
	"fmt"
	"strconv"
)

// ParseNonce extracts the nonce from a transfer memo: the run of decimal
// digits that ends the memo ("1112", "deposit 1112").
func ParseNonce(memo string) (uint64, error) {
	i := len(memo)
	for i > 0 && memo[i-1] >= '0' && memo[i-1] <= '9' {
		i--
	}
	if i == len(memo) {
		return 0, fmt.Errorf("%w: %q has no trailing nonce", ErrMalformedMemo, memo)
	}
	nonce, err := strconv.ParseUint(memo[i:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedMemo, err)
	}
	return nonce, nil
}
