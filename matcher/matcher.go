// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package matcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"go.uber.org/zap"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/utils"
)

var _ ledger.Receiver = (*Matcher)(nil)

// Matcher runs the two-phase prepare/fulfill protocol. A prepare call stores
// a pending request under a fresh nonce; the inbound ledger transfer carrying
// that nonce in its memo fulfills it against the pool balances current at
// that moment.
type Matcher struct {
	log        logging.Logger
	clock      *mockable.Clock
	ledger     ledger.Service
	registry   *registry.Registry
	accountant *liquidity.Accountant

	lock         sync.Mutex
	fulfillments []*Fulfillment
}

func New(
	log logging.Logger,
	clock *mockable.Clock,
	l ledger.Service,
	r *registry.Registry,
	a *liquidity.Accountant,
) *Matcher {
	return &Matcher{
		log:        log,
		clock:      clock,
		ledger:     l,
		registry:   r,
		accountant: a,
	}
}

// Now is the matcher's clock in unix milliseconds.
func (m *Matcher) Now() int64 {
	return m.clock.Time().UnixMilli()
}

// PreparedDeposit is returned by PrepareDeposit. Weight is the provisional
// weight the asset would have if the deposit settled against the current
// balance.
type PreparedDeposit struct {
	Nonce   uint64  `json:"nonce"`
	Expires int64   `json:"expires"`
	Amount  uint64  `json:"amount"`
	Weight  float64 `json:"weight"`
}

// PrepareDeposit registers the intent of [depositor] to add [amount] (a
// quantity such as "10.0000 AZURES") of [tokenID]. A positive [weight]
// replaces the asset weight at fulfillment, zero derives it.
func (m *Matcher) PrepareDeposit(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	depositor codec.Address,
	tokenID uint64,
	amount string,
	weight float64,
) (*PreparedDeposit, error) {
	cfg, err := storage.RequireConfig(ctx, mu)
	if err != nil {
		return nil, err
	}
	asset, err := registry.Get(ctx, mu, tokenID)
	if err != nil {
		return nil, err
	}
	amt, err := m.parse(ctx, mu, asset, amount)
	if err != nil {
		return nil, err
	}
	if amt == 0 {
		return nil, pricing.ErrZeroAmount
	}
	provisional := weight
	if weight > 0 {
		if err := pricing.ValidateWeight(weight); err != nil {
			return nil, fmt.Errorf("%w: %v", err, weight)
		}
	} else {
		if weight < 0 {
			return nil, fmt.Errorf("%w: %v", pricing.ErrInvalidWeight, weight)
		}
		before, err := m.registry.PoolBalance(ctx, mu, asset)
		if err != nil {
			return nil, err
		}
		provisional, err = pricing.DepositWeight(asset.Weight, amt, before)
		if err != nil {
			return nil, err
		}
	}

	expires, err := expiry(now, cfg.NonceLifetime)
	if err != nil {
		return nil, err
	}
	nonce, err := storage.NextNonce(ctx, mu, cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.SetPendingDeposit(ctx, mu, &storage.PendingDeposit{
		Nonce:     nonce,
		Expires:   expires,
		Depositor: depositor,
		TokenID:   tokenID,
		Amount:    amount,
		Weight:    weight,
	}); err != nil {
		return nil, err
	}
	m.log.Debug("prepared deposit",
		zap.Uint64("nonce", nonce),
		zap.Uint64("tokenID", tokenID),
		zap.Uint64("amount", amt),
		zap.Stringer("depositor", depositor),
	)
	return &PreparedDeposit{
		Nonce:   nonce,
		Expires: expires,
		Amount:  amt,
		Weight:  provisional,
	}, nil
}

// ExchangeRequest describes an exchange. With Exact set to ExactIn, InAmount
// is the amount sent and OutAmount the minimum accepted output. With
// ExactOut, OutAmount is the amount received and InAmount the maximum input.
type ExchangeRequest struct {
	Sender     codec.Address `json:"sender"`
	InTokenID  uint64        `json:"inTokenID"`
	InAmount   string        `json:"inAmount"`
	Recipient  codec.Address `json:"recipient"`
	OutTokenID uint64        `json:"outTokenID"`
	OutAmount  string        `json:"outAmount"`
	Exact      pricing.Side  `json:"exact"`
	Memo       string        `json:"memo"`
}

// Quote is the provisional result of an exchange against current balances.
type Quote struct {
	InAmount   uint64  `json:"inAmount"`
	OutAmount  uint64  `json:"outAmount"`
	Computed   uint64  `json:"computed"`
	BalanceIn  uint64  `json:"balanceIn"`
	BalanceOut uint64  `json:"balanceOut"`
	SpotBefore float64 `json:"spotBefore"`
	SpotAfter  float64 `json:"spotAfter"`
}

// PreparedExchange is returned by PrepareExchange. Computed is provisional;
// settlement recomputes against the balances at fulfillment.
type PreparedExchange struct {
	Nonce    uint64 `json:"nonce"`
	Expires  int64  `json:"expires"`
	Computed uint64 `json:"computed"`
}

// Quote evaluates [req] without storing anything.
func (m *Matcher) Quote(ctx context.Context, im state.Immutable, req *ExchangeRequest) (*Quote, error) {
	if !req.Exact.Valid() {
		return nil, fmt.Errorf("%w: %d", pricing.ErrInvalidSide, req.Exact)
	}
	if req.InTokenID == req.OutTokenID {
		return nil, fmt.Errorf("%w: %d", ErrIdenticalAssets, req.InTokenID)
	}
	in, out, err := m.pair(ctx, im, req.InTokenID, req.OutTokenID)
	if err != nil {
		return nil, err
	}
	inAmt, err := m.parse(ctx, im, in, req.InAmount)
	if err != nil {
		return nil, err
	}
	outAmt, err := m.parse(ctx, im, out, req.OutAmount)
	if err != nil {
		return nil, err
	}
	balIn, err := m.registry.PoolBalance(ctx, im, in)
	if err != nil {
		return nil, err
	}
	balOut, err := m.registry.PoolBalance(ctx, im, out)
	if err != nil {
		return nil, err
	}
	controlling, limit := inAmt, outAmt
	if req.Exact == pricing.ExactOut {
		controlling, limit = outAmt, inAmt
	}
	res, err := pricing.Compute(pricing.Input{
		WeightIn:   in.Weight,
		BalanceIn:  balIn,
		WeightOut:  out.Weight,
		BalanceOut: balOut,
		Side:       req.Exact,
		Amount:     controlling,
	})
	if err != nil {
		return nil, err
	}
	if err := pricing.CheckLimit(req.Exact, res.Computed, limit); err != nil {
		return nil, err
	}
	before, err := pricing.SpotPrice(in.Weight, balIn, out.Weight, balOut)
	if err != nil {
		return nil, err
	}
	after, err := pricing.SpotPrice(in.Weight, res.BalanceIn, out.Weight, res.BalanceOut)
	if err != nil {
		return nil, err
	}
	return &Quote{
		InAmount:   inAmt,
		OutAmount:  outAmt,
		Computed:   res.Computed,
		BalanceIn:  res.BalanceIn,
		BalanceOut: res.BalanceOut,
		SpotBefore: before,
		SpotAfter:  after,
	}, nil
}

// PrepareExchange quotes [req], failing if the quote violates its limit, and
// stores it as a pending exchange.
func (m *Matcher) PrepareExchange(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	req *ExchangeRequest,
) (*PreparedExchange, error) {
	cfg, err := storage.RequireConfig(ctx, mu)
	if err != nil {
		return nil, err
	}
	if req.Recipient == codec.EmptyAddress || req.Recipient == auth.PoolAddress {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecipient, req.Recipient)
	}
	if len(req.Memo) > consts.MaxMemoLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrMemoTooLong, len(req.Memo), consts.MaxMemoLen)
	}
	q, err := m.Quote(ctx, mu, req)
	if err != nil {
		return nil, err
	}

	expires, err := expiry(now, cfg.NonceLifetime)
	if err != nil {
		return nil, err
	}
	nonce, err := storage.NextNonce(ctx, mu, cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.SetPendingExchange(ctx, mu, &storage.PendingExchange{
		Nonce:      nonce,
		Expires:    expires,
		Sender:     req.Sender,
		Recipient:  req.Recipient,
		InTokenID:  req.InTokenID,
		InAmount:   req.InAmount,
		OutTokenID: req.OutTokenID,
		OutAmount:  req.OutAmount,
		Exact:      req.Exact,
		Memo:       req.Memo,
	}); err != nil {
		return nil, err
	}
	m.log.Debug("prepared exchange",
		zap.Uint64("nonce", nonce),
		zap.Uint64("in", req.InTokenID),
		zap.Uint64("out", req.OutTokenID),
		zap.Stringer("exact", req.Exact),
		zap.Uint64("computed", q.Computed),
	)
	return &PreparedExchange{
		Nonce:    nonce,
		Expires:  expires,
		Computed: q.Computed,
	}, nil
}

// PendingDeposits lists up to [limit] pending deposits in expiry order.
func (*Matcher) PendingDeposits(ctx context.Context, im state.Immutable, limit int) ([]*storage.PendingDeposit, error) {
	entries, err := storage.DepositExpiries(im, limit)
	if err != nil {
		return nil, err
	}
	deposits := make([]*storage.PendingDeposit, 0, len(entries))
	for _, e := range entries {
		d, ok, err := storage.GetPendingDeposit(ctx, im, e.Nonce)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: deposit %d", storage.ErrCorruptKey, e.Nonce)
		}
		deposits = append(deposits, d)
	}
	return deposits, nil
}

// PendingExchanges lists up to [limit] pending exchanges in expiry order.
func (*Matcher) PendingExchanges(ctx context.Context, im state.Immutable, limit int) ([]*storage.PendingExchange, error) {
	entries, err := storage.ExchangeExpiries(im, limit)
	if err != nil {
		return nil, err
	}
	exchanges := make([]*storage.PendingExchange, 0, len(entries))
	for _, e := range entries {
		x, ok, err := storage.GetPendingExchange(ctx, im, e.Nonce)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: exchange %d", storage.ErrCorruptKey, e.Nonce)
		}
		exchanges = append(exchanges, x)
	}
	return exchanges, nil
}

func (m *Matcher) pair(ctx context.Context, im state.Immutable, inID, outID uint64) (*registry.Asset, *registry.Asset, error) {
	in, err := registry.Get(ctx, im, inID)
	if err != nil {
		return nil, nil, err
	}
	if err := registry.RequireActive(in); err != nil {
		return nil, nil, err
	}
	out, err := registry.Get(ctx, im, outID)
	if err != nil {
		return nil, nil, err
	}
	if err := registry.RequireActive(out); err != nil {
		return nil, nil, err
	}
	return in, out, nil
}

// parse converts a quantity of [asset] into smallest units.
func (m *Matcher) parse(ctx context.Context, im state.Immutable, asset *registry.Asset, quantity string) (uint64, error) {
	precision, err := m.registry.Precision(ctx, im, asset)
	if err != nil {
		return 0, err
	}
	return utils.ParseQuantity(quantity, precision, asset.Identity.Symbol)
}

func expiry(now int64, lifetime int64) (int64, error) {
	if now < 0 || lifetime < 0 || now > consts.MaxInt64-lifetime {
		return 0, fmt.Errorf("%w: now=%d lifetime=%d", pricing.ErrArithmeticOverflow, now, lifetime)
	}
	return now + lifetime, nil
}
