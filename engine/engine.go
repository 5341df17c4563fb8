// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/oswaps/actions"
	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/liquidity"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/replay"
	"github.com/ava-labs/oswaps/state"
	"github.com/ava-labs/oswaps/storage"
	"github.com/ava-labs/oswaps/tstate"
)

var _ actions.Runtime = (*Engine)(nil)

// Engine owns the pool state. Every call is one unit of work: calls are
// serialized and a failing call leaves no trace in the database.
type Engine struct {
	cfg     Config
	log     logging.Logger
	tracer  trace.Tracer
	clock   *mockable.Clock
	db      database.Database
	metrics *metrics

	ledger     *ledger.Ledger
	registry   *registry.Registry
	accountant *liquidity.Accountant
	matcher    *matcher.Matcher
	authorizer auth.Authorizer

	lock sync.Mutex
	seen *replay.Window[*actions.Request]
}

func New(
	cfg Config,
	db database.Database,
	log logging.Logger,
	registerer prometheus.Registerer,
	clock *mockable.Clock,
	tracer trace.Tracer,
) (*Engine, error) {
	if cfg.Bootstrap == codec.EmptyAddress {
		return nil, ErrMissingBootstrap
	}
	if cfg.RequestValidity <= 0 {
		cfg.RequestValidity = defaultRequestValidity
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	l := ledger.New()
	r := registry.New(l)
	a := liquidity.New(cfg.Issuance)
	e := &Engine{
		cfg:        cfg,
		log:        log,
		tracer:     tracer,
		clock:      clock,
		db:         db,
		metrics:    m,
		ledger:     l,
		registry:   r,
		accountant: a,
		matcher:    matcher.New(log, clock, l, r, a),
		authorizer: auth.NewPolicy(cfg.Bootstrap),
		seen:       replay.NewWindow[*actions.Request](),
	}
	l.RegisterReceiver(auth.PoolAddress, e.matcher)
	return e, nil
}

func (e *Engine) Ledger() *ledger.Ledger            { return e.ledger }
func (e *Engine) Registry() *registry.Registry      { return e.registry }
func (e *Engine) Accountant() *liquidity.Accountant { return e.accountant }
func (e *Engine) Matcher() *matcher.Matcher         { return e.matcher }
func (e *Engine) Authorizer() auth.Authorizer       { return e.authorizer }

func (e *Engine) Logger() logging.Logger { return e.log }
func (e *Engine) Tracer() trace.Tracer   { return e.tracer }

// Execute runs [action] on behalf of [actor], who is trusted to be
// authenticated by the caller.
func (e *Engine) Execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.execute(ctx, actor, action)
}

// Receipt is the outcome of a submitted request.
type Receipt struct {
	ID     ids.ID        `json:"id"`
	Actor  codec.Address `json:"actor"`
	TypeID uint8         `json:"typeID"`
	Result codec.Typed   `json:"result"`
}

// Submit authenticates a signed request and executes it. A request is
// accepted at most once while it is unexpired.
func (e *Engine) Submit(ctx context.Context, b []byte) (*Receipt, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Submit")
	defer span.End()

	req, err := actions.UnmarshalRequest(b)
	if err != nil {
		return nil, err
	}
	if err := req.Verify(ctx); err != nil {
		return nil, err
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	now := e.matcher.Now()
	e.seen.SetMin(now)
	if err := req.ValidAt(now, e.cfg.RequestValidity); err != nil {
		return nil, err
	}
	if e.seen.Any([]*actions.Request{req}) {
		e.metrics.replayed.Inc()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRequest, req.ID())
	}
	result, err := e.execute(ctx, req.Actor(), req.Action)
	if err != nil {
		return nil, err
	}
	e.seen.Add([]*actions.Request{req})
	return &Receipt{
		ID:     req.ID(),
		Actor:  req.Actor(),
		TypeID: req.Action.GetTypeID(),
		Result: result,
	}, nil
}

// execute assumes [e.lock] is held.
func (e *Engine) execute(ctx context.Context, actor codec.Address, action actions.Action) (codec.Typed, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Execute", oteltrace.WithAttributes(
		attribute.Int("action", int(action.GetTypeID())),
		attribute.String("actor", actor.String()),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		e.metrics.execute.Observe(float64(time.Since(start)))
	}()

	ts := tstate.New(e.db)
	e.matcher.Drain()
	result, err := action.Execute(ctx, e, ts, e.matcher.Now(), actor)
	if err != nil {
		ts.Abort()
		e.matcher.Drain()
		e.metrics.failed.Inc()
		e.log.Debug("action rolled back",
			zap.Uint8("action", action.GetTypeID()),
			zap.Stringer("actor", actor),
			zap.Error(err),
		)
		return nil, err
	}
	if err := ts.Commit(); err != nil {
		return nil, err
	}
	e.observe(result)
	e.log.Debug("action executed",
		zap.Uint8("action", action.GetTypeID()),
		zap.Stringer("actor", actor),
		zap.Int("writes", ts.OpIndex()),
	)
	return result, nil
}

func (e *Engine) observe(result codec.Typed) {
	switch r := result.(type) {
	case *actions.PrepareDepositResult:
		e.metrics.preparedDeposits.Inc()
	case *actions.PrepareExchangeResult:
		e.metrics.preparedExchanges.Inc()
	case *actions.WithdrawResult:
		e.metrics.withdrawals.Inc()
	case *actions.TransferResult:
		f := r.Fulfillment
		if f == nil {
			return
		}
		e.metrics.expired.Add(float64(len(f.Evicted)))
		switch f.Kind {
		case matcher.Internal:
			e.metrics.internalTransfers.Inc()
		case matcher.Deposit:
			e.metrics.fulfilledDeposits.Inc()
		case matcher.Exchange:
			e.metrics.fulfilledExchanges.Inc()
		}
	}
}

// Reap evicts every pending request that has expired.
func (e *Engine) Reap(ctx context.Context) ([]uint64, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.Reap")
	defer span.End()

	e.lock.Lock()
	defer e.lock.Unlock()

	now := e.matcher.Now()
	e.seen.SetMin(now)
	ts := tstate.New(e.db)
	evicted, err := e.matcher.Collect(ctx, ts, now)
	if err != nil {
		ts.Abort()
		return nil, err
	}
	if err := ts.Commit(); err != nil {
		return nil, err
	}
	e.metrics.expired.Add(float64(len(evicted)))
	return evicted, nil
}

// Run reaps expired requests every [interval] until [ctx] is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			evicted, err := e.Reap(ctx)
			if err != nil {
				e.log.Warn("unable to reap expired requests", zap.Error(err))
				continue
			}
			if len(evicted) > 0 {
				e.log.Info("reaped expired requests", zap.Int("count", len(evicted)))
			}
		}
	}
}

// view runs [f] against a read-only snapshot of the pool.
func (e *Engine) view(ctx context.Context, name string, f func(context.Context, state.Immutable) error) error {
	ctx, span := e.tracer.Start(ctx, "Engine."+name)
	defer span.End()

	e.lock.Lock()
	defer e.lock.Unlock()

	ts := tstate.New(e.db)
	defer ts.Abort()
	return f(ctx, state.NewReadOnly(ts))
}

func (e *Engine) Config(ctx context.Context) (*storage.Config, error) {
	var cfg *storage.Config
	err := e.view(ctx, "Config", func(ctx context.Context, im state.Immutable) error {
		var err error
		cfg, err = storage.RequireConfig(ctx, im)
		return err
	})
	return cfg, err
}

func (e *Engine) Asset(ctx context.Context, tokenID uint64) (*registry.Asset, error) {
	var asset *registry.Asset
	err := e.view(ctx, "Asset", func(ctx context.Context, im state.Immutable) error {
		var err error
		asset, err = registry.Get(ctx, im, tokenID)
		return err
	})
	return asset, err
}

func (e *Engine) Assets(ctx context.Context) ([]*registry.Asset, error) {
	var assets []*registry.Asset
	err := e.view(ctx, "Assets", func(ctx context.Context, im state.Immutable) error {
		var err error
		assets, err = registry.List(ctx, im)
		return err
	})
	return assets, err
}

// PendingDeposits lists up to [limit] pending deposits, soonest expiry
// first.
func (e *Engine) PendingDeposits(ctx context.Context, limit int) ([]*storage.PendingDeposit, error) {
	var pending []*storage.PendingDeposit
	err := e.view(ctx, "PendingDeposits", func(ctx context.Context, im state.Immutable) error {
		var err error
		pending, err = e.matcher.PendingDeposits(ctx, im, limit)
		return err
	})
	return pending, err
}

func (e *Engine) PendingExchanges(ctx context.Context, limit int) ([]*storage.PendingExchange, error) {
	var pending []*storage.PendingExchange
	err := e.view(ctx, "PendingExchanges", func(ctx context.Context, im state.Immutable) error {
		var err error
		pending, err = e.matcher.PendingExchanges(ctx, im, limit)
		return err
	})
	return pending, err
}

func (e *Engine) ShareBalance(ctx context.Context, owner codec.Address, tokenID uint64) (uint64, error) {
	var bal uint64
	err := e.view(ctx, "ShareBalance", func(ctx context.Context, im state.Immutable) error {
		var err error
		bal, err = e.accountant.ShareBalance(ctx, im, owner, tokenID)
		return err
	})
	return bal, err
}

func (e *Engine) ShareSupply(ctx context.Context, tokenID uint64) (uint64, error) {
	var supply uint64
	err := e.view(ctx, "ShareSupply", func(ctx context.Context, im state.Immutable) error {
		var err error
		supply, err = e.accountant.ShareSupply(ctx, im, tokenID)
		return err
	})
	return supply, err
}

// Holdings lists every share balance of [owner].
func (e *Engine) Holdings(ctx context.Context, owner codec.Address) ([]storage.ShareHolding, error) {
	var holdings []storage.ShareHolding
	err := e.view(ctx, "Holdings", func(_ context.Context, im state.Immutable) error {
		var err error
		holdings, err = storage.ShareHoldings(im, owner)
		return err
	})
	return holdings, err
}

func (e *Engine) Balance(ctx context.Context, owner codec.Address, token ledger.Token) (uint64, error) {
	var bal uint64
	err := e.view(ctx, "Balance", func(ctx context.Context, im state.Immutable) error {
		var err error
		bal, err = e.ledger.Balance(ctx, im, owner, token)
		return err
	})
	return bal, err
}

// Quote prices [req] against the current balances without preparing it.
func (e *Engine) Quote(ctx context.Context, req *matcher.ExchangeRequest) (*matcher.Quote, error) {
	var q *matcher.Quote
	err := e.view(ctx, "Quote", func(ctx context.Context, im state.Immutable) error {
		var err error
		q, err = e.matcher.Quote(ctx, im, req)
		return err
	})
	return q, err
}
