// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/utils"
)

// Request is a signed action. The signature covers the expiry and the packed
// action, so a request can only be replayed until it expires.
type Request struct {
	// Expires is in unix milliseconds.
	Expires int64
	Action Action
	Auth   *auth.ED25519

	digest []byte
	bytes  []byte
	id     ids.ID
}

func NewRequest(expiry int64, action Action) *Request {
	return &Request{Expires: expiry, Action: action}
}

// Digest is the message covered by the signature.
func (r *Request) Digest() []byte {
	if r.digest != nil {
		return r.digest
	}
	p := codec.NewWriter(256, consts.NetworkSizeLimit)
	p.PackInt64(r.Expires)
	p.PackByte(r.Action.GetTypeID())
	r.Action.Marshal(p)
	r.digest = p.Bytes()
	return r.digest
}

// Sign authenticates the request with [f].
func (r *Request) Sign(f *auth.ED25519Factory) *Request {
	r.Auth = f.Sign(r.Digest())
	r.bytes = nil
	return r
}

func (r *Request) Bytes() []byte {
	if r.bytes != nil {
		return r.bytes
	}
	digest := r.Digest()
	b := make([]byte, 0, len(digest)+auth.ED25519Size)
	b = append(b, digest...)
	r.bytes = append(b, r.Auth.Bytes()...)
	return r.bytes
}

// ID identifies the request for replay protection.
func (r *Request) ID() ids.ID {
	if r.id == ids.Empty {
		r.id = utils.ToID(r.Bytes())
	}
	return r.id
}

func (r *Request) Expiry() int64 {
	return r.Expires
}

func (r *Request) Actor() codec.Address {
	return r.Auth.Actor()
}

func (r *Request) Verify(ctx context.Context) error {
	if r.Auth == nil {
		return auth.ErrInvalidAuth
	}
	return r.Auth.Verify(ctx, r.Digest())
}

// ValidAt checks the request expiry against [now], allowing at most
// [validity] milliseconds into the future.
func (r *Request) ValidAt(now int64, validity int64) error {
	if r.Expires < now {
		return fmt.Errorf("%w: %d < %d", ErrRequestExpired, r.Expires, now)
	}
	if r.Expires-now > validity {
		return fmt.Errorf("%w: %d > %d", ErrRequestTooFar, r.Expires-now, validity)
	}
	return nil
}

func UnmarshalRequest(b []byte) (*Request, error) {
	if len(b) < consts.Int64Len+consts.ByteLen+auth.ED25519Size {
		return nil, fmt.Errorf("%w: request of %d bytes", codec.ErrInvalidSize, len(b))
	}
	digest := b[:len(b)-auth.ED25519Size]
	a, err := auth.UnmarshalED25519(b[len(b)-auth.ED25519Size:])
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(digest, consts.NetworkSizeLimit)
	expiry := p.UnpackInt64(true)
	action, err := Parser.Unpack(p)
	if err != nil {
		return nil, err
	}
	if err := p.Done(); err != nil {
		return nil, err
	}
	return &Request{
		Expires: expiry,
		Action:  action,
		Auth:    a,
		digest:  digest,
		bytes:   b,
	}, nil
}
