// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "fmt"

// Side selects which leg of an exchange is controlling. The other leg is the
// limit.
type Side uint8

const (
	// ExactIn fixes the input amount; the output amount is a floor.
	ExactIn Side = iota
	// ExactOut fixes the output amount; the input amount is a cap.
	ExactOut
)

func (s Side) String() string {
	switch s {
	case ExactIn:
		return "in"
	case ExactOut:
		return "out"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

func (s Side) Valid() bool {
	return s == ExactIn || s == ExactOut
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "in":
		return ExactIn, nil
	case "out":
		return ExactOut, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
