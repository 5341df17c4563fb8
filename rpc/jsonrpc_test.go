// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/oswaps/actions"
	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/crypto/ed25519"
	"github.com/ava-labs/oswaps/engine"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/pricing"
)

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func newClient(t *testing.T, bootstrap *auth.ED25519Factory, clock *mockable.Clock) *JSONRPCClient {
	require := require.New(t)
	cfg := engine.NewDefaultConfig()
	cfg.Bootstrap = bootstrap.Address()
	e, err := engine.New(cfg, memdb.New(), logging.NoLog{}, prometheus.NewRegistry(), clock, trace.Noop)
	require.NoError(err)

	handler, err := NewJSONRPCHandler(Name, NewJSONRPCServer(e))
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle(JSONRPCEndpoint, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL)
}

func TestJSONRPC(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	clock := &mockable.Clock{}
	clock.Set(time.UnixMilli(1_700_000_000_000))
	expiry := func() int64 { return clock.Time().UnixMilli() + 1_000 }

	manager, issuer, alice := newFactory(t), newFactory(t), newFactory(t)
	cli := newClient(t, manager, clock)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	_, err = cli.Config(ctx)
	require.ErrorContains(err, "pool is not configured")

	var cfg actions.ConfigResult
	_, err = cli.Submit(ctx, manager, expiry(), &actions.Configure{Manager: manager.Address(), NonceLifetime: 10_000}, &cfg)
	require.NoError(err)
	require.Equal(manager.Address(), cfg.Config.Manager)

	seeds := ledger.Token{Contract: issuer.Address(), Symbol: "SEEDS"}
	tests := ledger.Token{Contract: issuer.Address(), Symbol: "TESTS"}
	for _, token := range []ledger.Token{seeds, tests} {
		_, err = cli.Submit(ctx, issuer, expiry(), &actions.CreateToken{Symbol: token.Symbol, MaxSupply: 1_000_000_000, Precision: 4}, nil)
		require.NoError(err)
		_, err = cli.Submit(ctx, issuer, expiry(), &actions.IssueToken{Symbol: token.Symbol, To: alice.Address(), Quantity: "50.0000 " + token.Symbol}, nil)
		require.NoError(err)
		var registered actions.AssetResult
		_, err = cli.Submit(ctx, manager, expiry(), &actions.RegisterAsset{Contract: issuer.Address(), Symbol: token.Symbol}, &registered)
		require.NoError(err)

		var prepared actions.PrepareDepositResult
		_, err = cli.Submit(ctx, manager, expiry(), &actions.PrepareDeposit{
			Depositor: alice.Address(),
			TokenID:   registered.Asset.TokenID,
			Amount:    "10.0000 " + token.Symbol,
			Weight:    1,
		}, &prepared)
		require.NoError(err)

		var transfer actions.TransferResult
		_, err = cli.Submit(ctx, alice, expiry(), &actions.Transfer{
			To:       auth.PoolAddress,
			Contract: token.Contract,
			Symbol:   token.Symbol,
			Quantity: "10.0000 " + token.Symbol,
			Memo:     fmt.Sprintf("nonce %d", prepared.Nonce),
		}, &transfer)
		require.NoError(err)
		require.Equal(matcher.Deposit, transfer.Fulfillment.Kind)
	}

	assets, err := cli.Assets(ctx)
	require.NoError(err)
	require.Len(assets, 2)
	asset, err := cli.Asset(ctx, 2)
	require.NoError(err)
	require.Equal(ledger.Token{Contract: auth.PoolAddress, Symbol: "LIQC"}, asset.ShareToken)
	require.Equal(uint64(100_000), asset.ShareSupply)

	shares, err := cli.ShareBalance(ctx, alice.Address(), 1)
	require.NoError(err)
	require.Equal(uint64(100_000), shares)
	holdings, err := cli.Holdings(ctx, alice.Address())
	require.NoError(err)
	require.Len(holdings, 2)

	// Equal weights and balances: 1.0000 in buys 0.9091 out.
	req := &matcher.ExchangeRequest{
		Sender:     alice.Address(),
		InTokenID:  1,
		InAmount:   "1.0000 SEEDS",
		Recipient:  alice.Address(),
		OutTokenID: 2,
		OutAmount:  "0.9000 TESTS",
		Exact:      pricing.ExactIn,
	}
	quote, err := cli.Quote(ctx, req)
	require.NoError(err)
	require.Equal(uint64(9_091), quote.Computed)

	var prepared actions.PrepareExchangeResult
	_, err = cli.Submit(ctx, alice, expiry(), &actions.PrepareExchange{
		Sender:     req.Sender,
		InTokenID:  req.InTokenID,
		InAmount:   req.InAmount,
		Recipient:  req.Recipient,
		OutTokenID: req.OutTokenID,
		OutAmount:  req.OutAmount,
		Exact:      req.Exact,
	}, &prepared)
	require.NoError(err)
	exchanges, err := cli.PendingExchanges(ctx, 0)
	require.NoError(err)
	require.Len(exchanges, 1)
	require.Equal(prepared.Nonce, exchanges[0].Nonce)
	deposits, err := cli.PendingDeposits(ctx, 0)
	require.NoError(err)
	require.Empty(deposits)

	_, err = cli.Submit(ctx, alice, expiry(), &actions.Transfer{
		To:       auth.PoolAddress,
		Contract: seeds.Contract,
		Symbol:   "SEEDS",
		Quantity: "1.0000 SEEDS",
		Memo:     fmt.Sprintf("nonce %d", prepared.Nonce),
	}, nil)
	require.NoError(err)

	bal, err := cli.Balance(ctx, alice.Address(), tests)
	require.NoError(err)
	require.Equal(uint64(409_091), bal)

	// Replays are rejected.
	b := actions.NewRequest(expiry(), &actions.PrepareDeposit{
		Depositor: alice.Address(),
		TokenID:   1,
		Amount:    "1.0000 SEEDS",
	}).Sign(alice).Bytes()
	_, err = cli.SubmitBytes(ctx, b)
	require.NoError(err)
	_, err = cli.SubmitBytes(ctx, b)
	require.ErrorContains(err, engine.ErrDuplicateRequest.Error())
	_, err = cli.SubmitBytes(ctx, nil)
	require.ErrorContains(err, ErrEmptyRequest.Error())
}
