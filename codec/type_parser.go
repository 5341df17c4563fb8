// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "fmt"

// TypeParser decodes values prefixed with their type identifier.
type TypeParser[T Typed] struct {
	decoders map[uint8]func(*Packer) (T, error)
}

func NewTypeParser[T Typed]() *TypeParser[T] {
	return &TypeParser[T]{decoders: map[uint8]func(*Packer) (T, error){}}
}

// Register binds the type identifier of [o] to [f].
func (p *TypeParser[T]) Register(o T, f func(*Packer) (T, error)) error {
	id := o.GetTypeID()
	if _, ok := p.decoders[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateItem, id)
	}
	p.decoders[id] = f
	return nil
}

func (p *TypeParser[T]) LookupIndex(id uint8) (func(*Packer) (T, error), bool) {
	f, ok := p.decoders[id]
	return f, ok
}

// Unpack reads a type identifier and decodes the value that follows.
func (p *TypeParser[T]) Unpack(packer *Packer) (T, error) {
	var empty T
	id := packer.UnpackByte()
	if err := packer.Err(); err != nil {
		return empty, err
	}
	f, ok := p.decoders[id]
	if !ok {
		return empty, fmt.Errorf("%w: %d", ErrUnknownType, id)
	}
	return f(packer)
}
