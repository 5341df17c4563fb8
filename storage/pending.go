// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/state"
)

// PendingDeposit is a prepared single-sided liquidity deposit waiting for
// its inbound transfer.
type PendingDeposit struct {
	Nonce     uint64        `json:"nonce"`
	Expires   int64         `json:"expires"`
	Depositor codec.Address `json:"depositor"`
	TokenID   uint64        `json:"tokenID"`
	Amount    string        `json:"amount"`
	// Weight is the explicit weight to apply, or 0 to derive it from the
	// balance change at fulfillment.
	Weight float64 `json:"weight"`
}

func (d *PendingDeposit) Marshal() []byte {
	p := newWriter(128)
	p.PackUint64(d.Nonce)
	p.PackInt64(d.Expires)
	p.PackAddress(d.Depositor)
	p.PackUint64(d.TokenID)
	p.PackString(d.Amount)
	p.PackFloat64(d.Weight)
	return p.Bytes()
}

func UnmarshalPendingDeposit(b []byte) (*PendingDeposit, error) {
	var d PendingDeposit
	p := newReader(b)
	d.Nonce = p.UnpackUint64(true)
	d.Expires = p.UnpackInt64(false)
	p.UnpackAddress(&d.Depositor)
	d.TokenID = p.UnpackUint64(true)
	d.Amount = p.UnpackString(consts.MaxMemoLen, true)
	d.Weight = p.UnpackFloat64()
	return &d, p.Done()
}

// PendingExchange is a prepared exchange waiting for its inbound transfer.
type PendingExchange struct {
	Nonce      uint64        `json:"nonce"`
	Expires    int64         `json:"expires"`
	Sender     codec.Address `json:"sender"`
	Recipient  codec.Address `json:"recipient"`
	InTokenID  uint64        `json:"inTokenID"`
	InAmount   string        `json:"inAmount"`
	OutTokenID uint64        `json:"outTokenID"`
	OutAmount  string        `json:"outAmount"`
	Exact      pricing.Side  `json:"exact"`
	Memo       string        `json:"memo"`
}

func (e *PendingExchange) Marshal() []byte {
	p := newWriter(256)
	p.PackUint64(e.Nonce)
	p.PackInt64(e.Expires)
	p.PackAddress(e.Sender)
	p.PackAddress(e.Recipient)
	p.PackUint64(e.InTokenID)
	p.PackString(e.InAmount)
	p.PackUint64(e.OutTokenID)
	p.PackString(e.OutAmount)
	p.PackByte(byte(e.Exact))
	p.PackString(e.Memo)
	return p.Bytes()
}

func UnmarshalPendingExchange(b []byte) (*PendingExchange, error) {
	var e PendingExchange
	p := newReader(b)
	e.Nonce = p.UnpackUint64(true)
	e.Expires = p.UnpackInt64(false)
	p.UnpackAddress(&e.Sender)
	p.UnpackAddress(&e.Recipient)
	e.InTokenID = p.UnpackUint64(true)
	e.InAmount = p.UnpackString(consts.MaxMemoLen, true)
	e.OutTokenID = p.UnpackUint64(true)
	e.OutAmount = p.UnpackString(consts.MaxMemoLen, true)
	e.Exact = pricing.Side(p.UnpackByte())
	e.Memo = p.UnpackString(consts.MaxMemoLen, false)
	if err := p.Done(); err != nil {
		return nil, err
	}
	if !e.Exact.Valid() {
		return nil, fmt.Errorf("%w: exchange side %d", ErrCorruptValue, e.Exact)
	}
	return &e, nil
}

// Expiry is one entry of an expiry index.
type Expiry struct {
	Expires int64  `json:"expires"`
	Nonce   uint64 `json:"nonce"`
}

func DepositKey(nonce uint64) []byte {
	return uint64Key(depositPrefix, nonce)
}

func ExchangeKey(nonce uint64) []byte {
	return uint64Key(exchangePrefix, nonce)
}

func GetPendingDeposit(ctx context.Context, im state.Immutable, nonce uint64) (*PendingDeposit, bool, error) {
	v, ok, err := getRecord(ctx, im, DepositKey(nonce))
	if err != nil || !ok {
		return nil, false, err
	}
	d, err := UnmarshalPendingDeposit(v)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// SetPendingDeposit stores [d] and indexes it by expiry.
func SetPendingDeposit(ctx context.Context, mu state.Mutable, d *PendingDeposit) error {
	if d.Expires < 0 {
		return ErrNegativeExpiry
	}
	if err := mu.Insert(ctx, DepositKey(d.Nonce), d.Marshal()); err != nil {
		return err
	}
	return mu.Insert(ctx, expiryKey(depositExpiryPrefix, d.Expires, d.Nonce), nil)
}

func DeletePendingDeposit(ctx context.Context, mu state.Mutable, d *PendingDeposit) error {
	if err := mu.Remove(ctx, DepositKey(d.Nonce)); err != nil {
		return err
	}
	return mu.Remove(ctx, expiryKey(depositExpiryPrefix, d.Expires, d.Nonce))
}

func GetPendingExchange(ctx context.Context, im state.Immutable, nonce uint64) (*PendingExchange, bool, error) {
	v, ok, err := getRecord(ctx, im, ExchangeKey(nonce))
	if err != nil || !ok {
		return nil, false, err
	}
	e, err := UnmarshalPendingExchange(v)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// SetPendingExchange stores [e] and indexes it by expiry.
func SetPendingExchange(ctx context.Context, mu state.Mutable, e *PendingExchange) error {
	if e.Expires < 0 {
		return ErrNegativeExpiry
	}
	if err := mu.Insert(ctx, ExchangeKey(e.Nonce), e.Marshal()); err != nil {
		return err
	}
	return mu.Insert(ctx, expiryKey(exchangeExpiryPrefix, e.Expires, e.Nonce), nil)
}

func DeletePendingExchange(ctx context.Context, mu state.Mutable, e *PendingExchange) error {
	if err := mu.Remove(ctx, ExchangeKey(e.Nonce)); err != nil {
		return err
	}
	return mu.Remove(ctx, expiryKey(exchangeExpiryPrefix, e.Expires, e.Nonce))
}

// ExpiredDeposits walks the deposit expiry index in ascending order and
// returns every entry with expires < [now]. The walk stops at the first live
// entry.
func ExpiredDeposits(im state.Immutable, now int64) ([]Expiry, error) {
	return expired(im, depositExpiryPrefix, now)
}

// ExpiredExchanges is ExpiredDeposits for the exchange index.
func ExpiredExchanges(im state.Immutable, now int64) ([]Expiry, error) {
	return expired(im, exchangeExpiryPrefix, now)
}

// DepositExpiries lists up to [limit] deposit expiry entries in ascending
// order (all when negative).
func DepositExpiries(im state.Immutable, limit int) ([]Expiry, error) {
	return expiries(im, depositExpiryPrefix, limit)
}

func ExchangeExpiries(im state.Immutable, limit int) ([]Expiry, error) {
	return expiries(im, exchangeExpiryPrefix, limit)
}

func expired(im state.Immutable, prefix byte, now int64) ([]Expiry, error) {
	iter := im.NewIteratorWithPrefix([]byte{prefix})
	defer iter.Release()

	entries := []Expiry{}
	for iter.Next() {
		expires, nonce, err := parseExpiryKey(iter.Key())
		if err != nil {
			return nil, err
		}
		if expires >= now {
			break
		}
		entries = append(entries, Expiry{Expires: expires, Nonce: nonce})
	}
	return entries, iter.Error()
}

func expiries(im state.Immutable, prefix byte, limit int) ([]Expiry, error) {
	keys, err := collectKeys(im, []byte{prefix}, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]Expiry, len(keys))
	for i, k := range keys {
		expires, nonce, err := parseExpiryKey(k)
		if err != nil {
			return nil, err
		}
		entries[i] = Expiry{Expires: expires, Nonce: nonce}
	}
	return entries, nil
}

// EvictDeposit removes the deposit indexed by [e] and its expiry entry.
func EvictDeposit(ctx context.Context, mu state.Mutable, e Expiry) error {
	if err := mu.Remove(ctx, DepositKey(e.Nonce)); err != nil {
		return err
	}
	return mu.Remove(ctx, expiryKey(depositExpiryPrefix, e.Expires, e.Nonce))
}

// EvictExchange removes the exchange indexed by [e] and its expiry entry.
func EvictExchange(ctx context.Context, mu state.Mutable, e Expiry) error {
	if err := mu.Remove(ctx, ExchangeKey(e.Nonce)); err != nil {
		return err
	}
	return mu.Remove(ctx, expiryKey(exchangeExpiryPrefix, e.Expires, e.Nonce))
}
