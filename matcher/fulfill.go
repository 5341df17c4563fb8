// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package matcher

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/consts"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/pricing"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
)

const refundMemo = "oswaps refund "

type Kind string

const (
	Internal Kind = "internal"
	Deposit  Kind = "deposit"
	Exchange Kind = "exchange"
)

// Fulfillment records what an inbound transfer settled.
type Fulfillment struct {
	Kind    Kind          `json:"kind"`
	Nonce   uint64        `json:"nonce"`
	From    codec.Address `json:"from"`
	Token   ledger.Token  `json:"token"`
	Amount  uint64        `json:"amount"`
	Evicted []uint64      `json:"evicted,omitempty"`

	Deposit *liquidity.Outcome `json:"deposit,omitempty"`

	Recipient  codec.Address `json:"recipient,omitempty"`
	OutTokenID uint64        `json:"outTokenID,omitempty"`
	Paid       uint64        `json:"paid,omitempty"`
	Refund     uint64        `json:"refund,omitempty"`
}

// OnTransfer is the pool's ledger hook. The memo must end in the decimal
// nonce of a pending request.
func (m *Matcher) OnTransfer(
	ctx context.Context,
	mu state.Mutable,
	from codec.Address,
	token ledger.Token,
	amount uint64,
	memo string,
) error {
	if from == auth.PoolAddress {
		return nil
	}
	nonce, err := ParseNonce(memo)
	if err != nil {
		return err
	}
	f, err := m.OnTransferReceived(ctx, mu, m.Now(), from, token, amount, nonce)
	if err != nil {
		return err
	}
	m.lock.Lock()
	m.fulfillments = append(m.fulfillments, f)
	m.lock.Unlock()
	return nil
}

// Drain returns and clears the fulfillments recorded by OnTransfer.
func (m *Matcher) Drain() []*Fulfillment {
	m.lock.Lock()
	defer m.lock.Unlock()

	f := m.fulfillments
	m.fulfillments = nil
	return f
}

// OnTransferReceived settles the pending request identified by [nonce]
// against [amount] of [token] just credited to the pool by [from].
// InternalTransferNonce bypasses matching entirely.
func (m *Matcher) OnTransferReceived(
	ctx context.Context,
	mu state.Mutable,
	now int64,
	from codec.Address,
	token ledger.Token,
	amount uint64,
	nonce uint64,
) (*Fulfillment, error) {
	f := &Fulfillment{
		Kind:   Internal,
		Nonce:  nonce,
		From:   from,
		Token:  token,
		Amount: amount,
	}
	if nonce == consts.InternalTransferNonce {
		m.log.Debug("internal transfer",
			zap.Stringer("from", from),
			zap.Stringer("token", token),
			zap.Uint64("amount", amount),
		)
		return f, nil
	}

	evicted, err := m.Collect(ctx, mu, now)
	if err != nil {
		return nil, err
	}
	f.Evicted = evicted
	if slices.Contains(evicted, nonce) {
		return nil, fmt.Errorf("%w: %d", ErrStaleNonce, nonce)
	}

	d, ok, err := storage.GetPendingDeposit(ctx, mu, nonce)
	if err != nil {
		return nil, err
	}
	if ok {
		f.Kind = Deposit
		f.Deposit, err = m.fulfillDeposit(ctx, mu, d, from, token, amount)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	x, ok, err := storage.GetPendingExchange(ctx, mu, nonce)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoMatchingRequest, nonce)
	}
	f.Kind = Exchange
	if err := m.fulfillExchange(ctx, mu, x, token, amount, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (m *Matcher) fulfillDeposit(
	ctx context.Context,
	mu state.Mutable,
	d *storage.PendingDeposit,
	from codec.Address,
	token ledger.Token,
	amount uint64,
) (*liquidity.Outcome, error) {
	if from != d.Depositor {
		return nil, fmt.Errorf("%w: deposit %d was prepared for %s", ErrIdentityMismatch, d.Nonce, d.Depositor)
	}
	asset, err := registry.Get(ctx, mu, d.TokenID)
	if err != nil {
		return nil, err
	}
	if want := registry.TokenOf(asset.Identity); token != want {
		return nil, fmt.Errorf("%w: received %s, expected %s", ErrIdentityMismatch, token, want)
	}
	expected, err := m.parse(ctx, mu, asset, d.Amount)
	if err != nil {
		return nil, err
	}
	if amount != expected {
		return nil, fmt.Errorf("%w: received %d, prepared %d", ErrAmountMismatch, amount, expected)
	}
	balance, err := m.registry.PoolBalance(ctx, mu, asset)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, fmt.Errorf("%w: pool holds %d after receiving %d", pricing.ErrInsufficientPoolBalance, balance, amount)
	}
	out, err := m.accountant.Deposit(ctx, mu, from, asset, amount, d.Weight, balance-amount)
	if err != nil {
		return nil, err
	}
	if err := storage.DeletePendingDeposit(ctx, mu, d); err != nil {
		return nil, err
	}
	m.log.Debug("fulfilled deposit",
		zap.Uint64("nonce", d.Nonce),
		zap.Uint64("tokenID", asset.TokenID),
		zap.Uint64("shares", out.Shares),
		zap.Float64("weight", out.Weight),
	)
	return out, nil
}

func (m *Matcher) fulfillExchange(
	ctx context.Context,
	mu state.Mutable,
	x *storage.PendingExchange,
	token ledger.Token,
	amount uint64,
	f *Fulfillment,
) error {
	in, out, err := m.pair(ctx, mu, x.InTokenID, x.OutTokenID)
	if err != nil {
		return err
	}
	if want := registry.TokenOf(in.Identity); token != want {
		return fmt.Errorf("%w: received %s, expected %s", ErrIdentityMismatch, token, want)
	}
	inAmt, err := m.parse(ctx, mu, in, x.InAmount)
	if err != nil {
		return err
	}
	outAmt, err := m.parse(ctx, mu, out, x.OutAmount)
	if err != nil {
		return err
	}
	balIn, err := m.registry.PoolBalance(ctx, mu, in)
	if err != nil {
		return err
	}
	if balIn < amount {
		return fmt.Errorf("%w: pool holds %d after receiving %d", pricing.ErrInsufficientPoolBalance, balIn, amount)
	}
	balIn -= amount
	balOut, err := m.registry.PoolBalance(ctx, mu, out)
	if err != nil {
		return err
	}

	var (
		paid   uint64
		refund uint64
	)
	switch x.Exact {
	case pricing.ExactIn:
		if amount != inAmt {
			return fmt.Errorf("%w: received %d, prepared %d", ErrAmountMismatch, amount, inAmt)
		}
		res, err := pricing.Compute(pricing.Input{
			WeightIn:   in.Weight,
			BalanceIn:  balIn,
			WeightOut:  out.Weight,
			BalanceOut: balOut,
			Side:       pricing.ExactIn,
			Amount:     inAmt,
		})
		if err != nil {
			return err
		}
		if err := pricing.CheckLimit(pricing.ExactIn, res.Computed, outAmt); err != nil {
			return err
		}
		if res.Computed == 0 {
			return fmt.Errorf("%w: exchange of %d pays nothing", pricing.ErrZeroAmount, amount)
		}
		paid = res.Computed
	case pricing.ExactOut:
		res, err := pricing.Compute(pricing.Input{
			WeightIn:   in.Weight,
			BalanceIn:  balIn,
			WeightOut:  out.Weight,
			BalanceOut: balOut,
			Side:       pricing.ExactOut,
			Amount:     outAmt,
		})
		if err != nil {
			return err
		}
		if err := pricing.CheckLimit(pricing.ExactOut, res.Computed, inAmt); err != nil {
			return err
		}
		if amount < res.Computed {
			return fmt.Errorf("%w: received %d, requires %d", ErrAmountMismatch, amount, res.Computed)
		}
		paid = outAmt
		refund = amount - res.Computed
	default:
		return fmt.Errorf("%w: %d", pricing.ErrInvalidSide, x.Exact)
	}

	if err := storage.DeletePendingExchange(ctx, mu, x); err != nil {
		return err
	}
	if err := m.ledger.Transfer(ctx, mu, auth.PoolAddress, x.Recipient, registry.TokenOf(out.Identity), paid, x.Memo); err != nil {
		return err
	}
	if refund > 0 {
		memo := refundMemo + strconv.FormatUint(x.Nonce, 10)
		if err := m.ledger.Transfer(ctx, mu, auth.PoolAddress, x.Sender, token, refund, memo); err != nil {
			return err
		}
	}
	f.Recipient = x.Recipient
	f.OutTokenID = out.TokenID
	f.Paid = paid
	f.Refund = refund
	m.log.Debug("fulfilled exchange",
		zap.Uint64("nonce", x.Nonce),
		zap.Stringer("exact", x.Exact),
		zap.Uint64("received", amount),
		zap.Uint64("paid", paid),
		zap.Uint64("refund", refund),
	)
	return nil
}

// Collect evicts every pending request that expired before [now], walking
// each expiry index in ascending order, and returns the evicted nonces.
func (m *Matcher) Collect(ctx context.Context, mu state.Mutable, now int64) ([]uint64, error) {
	deposits, err := storage.ExpiredDeposits(mu, now)
	if err != nil {
		return nil, err
	}
	exchanges, err := storage.ExpiredExchanges(mu, now)
	if err != nil {
		return nil, err
	}
	evicted := make([]uint64, 0, len(deposits)+len(exchanges))
	for _, e := range deposits {
		if err := storage.EvictDeposit(ctx, mu, e); err != nil {
			return nil, err
		}
		evicted = append(evicted, e.Nonce)
	}
	for _, e := range exchanges {
		if err := storage.EvictExchange(ctx, mu, e); err != nil {
			return nil, err
		}
		evicted = append(evicted, e.Nonce)
	}
	if len(evicted) > 0 {
		m.log.Debug("evicted expired requests",
			zap.Int("deposits", len(deposits)),
			zap.Int("exchanges", len(exchanges)),
		)
	}
	return evicted, nil
}
