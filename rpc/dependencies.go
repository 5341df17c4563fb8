// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/engine"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/storage"
)

var _ Engine = (*engine.Engine)(nil)

// Engine is what the JSON-RPC service needs from the pool.
type Engine interface {
	Logger() logging.Logger
	Tracer() trace.Tracer

	Submit(ctx context.Context, b []byte) (*engine.Receipt, error)

	Config(ctx context.Context) (*storage.Config, error)
	Asset(ctx context.Context, tokenID uint64) (*storage.Asset, error)
	Assets(ctx context.Context) ([]*storage.Asset, error)
	PendingDeposits(ctx context.Context, limit int) ([]*storage.PendingDeposit, error)
	PendingExchanges(ctx context.Context, limit int) ([]*storage.PendingExchange, error)
	ShareBalance(ctx context.Context, owner codec.Address, tokenID uint64) (uint64, error)
	ShareSupply(ctx context.Context, tokenID uint64) (uint64, error)
	Holdings(ctx context.Context, owner codec.Address) ([]storage.ShareHolding, error)
	Balance(ctx context.Context, owner codec.Address, token ledger.Token) (uint64, error)
	Quote(ctx context.Context, req *matcher.ExchangeRequest) (*matcher.Quote, error)
}
