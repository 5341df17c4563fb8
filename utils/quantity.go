// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var ErrMalformedAmount = errors.New("malformed amount")

// pow10 returns 10^[precision] or an error if it does not fit in a uint64.
func pow10(precision uint8) (uint64, error) {
	v := uint64(1)
	for i := uint8(0); i < precision; i++ {
		next, err := smath.Mul(v, 10)
		if err != nil {
			return 0, err
		}
		v = next
	}
	return v, nil
}

// ParseQuantity parses a decimal quantity such as "10.0000 AZURES" into its
// value in smallest units. The fractional part may not be longer than
// [precision] and the symbol must equal [symbol].
func ParseQuantity(quantity string, precision uint8, symbol string) (uint64, error) {
	amount, sym, ok := strings.Cut(quantity, " ")
	if !ok {
		return 0, fmt.Errorf("%w: %q is missing a symbol", ErrMalformedAmount, quantity)
	}
	if sym != symbol {
		return 0, fmt.Errorf("%w: symbol %q does not match %q", ErrMalformedAmount, sym, symbol)
	}
	return ParseAmount(amount, precision)
}

// ParseAmount parses a decimal string without a symbol.
func ParseAmount(amount string, precision uint8) (uint64, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	if len(whole) == 0 || !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q is not a non-negative decimal", ErrMalformedAmount, amount)
	}
	if len(frac) > int(precision) {
		return 0, fmt.Errorf("%w: %q has more than %d decimals", ErrMalformedAmount, amount, precision)
	}
	scale, err := pow10(precision)
	if err != nil {
		return 0, fmt.Errorf("%w: precision %d", ErrMalformedAmount, precision)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedAmount, err)
	}
	v, err := smath.Mul(w, scale)
	if err != nil {
		return 0, fmt.Errorf("%w: %q overflows", ErrMalformedAmount, amount)
	}
	if len(frac) > 0 {
		fracScale, _ := pow10(precision - uint8(len(frac)))
		f, err := strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedAmount, err)
		}
		v, err = smath.Add(v, f*fracScale)
		if err != nil {
			return 0, fmt.Errorf("%w: %q overflows", ErrMalformedAmount, amount)
		}
	}
	return v, nil
}

// FormatQuantity renders [value] smallest units as a decimal quantity with
// exactly [precision] decimals followed by [symbol].
func FormatQuantity(value uint64, precision uint8, symbol string) string {
	return FormatAmount(value, precision) + " " + symbol
}

func FormatAmount(value uint64, precision uint8) string {
	s := strconv.FormatUint(value, 10)
	if precision == 0 {
		return s
	}
	p := int(precision)
	if len(s) <= p {
		s = strings.Repeat("0", p-len(s)+1) + s
	}
	return s[:len(s)-p] + "." + s[len(s)-p:]
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
