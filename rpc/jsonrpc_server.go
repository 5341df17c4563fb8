// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/registry"
	"github.com/ava-labs/oswaps/storage"
)

type JSONRPCServer struct {
	e Engine
}

func NewJSONRPCServer(e Engine) *JSONRPCServer {
	return &JSONRPCServer{e}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.e.Logger().Info("ping")
	reply.Success = true
	return nil
}

type SubmitArgs struct {
	Request []byte `json:"request"`
}

type SubmitReply struct {
	ID     ids.ID          `json:"id"`
	Actor  codec.Address   `json:"actor"`
	TypeID uint8           `json:"typeID"`
	Result json.RawMessage `json:"result"`
}

func (j *JSONRPCServer) Submit(req *http.Request, args *SubmitArgs, reply *SubmitReply) error {
	ctx, span := j.e.Tracer().Start(req.Context(), "JSONRPCServer.Submit")
	defer span.End()

	if len(args.Request) == 0 {
		return ErrEmptyRequest
	}
	receipt, err := j.e.Submit(ctx, args.Request)
	if err != nil {
		j.e.Logger().Debug("request rejected", zap.Error(err))
		return err
	}
	result, err := json.Marshal(receipt.Result)
	if err != nil {
		return err
	}
	reply.ID = receipt.ID
	reply.Actor = receipt.Actor
	reply.TypeID = receipt.TypeID
	reply.Result = result
	return nil
}

type ConfigReply struct {
	Config storage.Config `json:"config"`
}

func (j *JSONRPCServer) Config(req *http.Request, _ *struct{}, reply *ConfigReply) error {
	cfg, err := j.e.Config(req.Context())
	if err != nil {
		return err
	}
	reply.Config = *cfg
	return nil
}

type AssetArgs struct {
	TokenID uint64 `json:"tokenID"`
}

type AssetReply struct {
	Asset       storage.Asset `json:"asset"`
	ShareToken  ledger.Token  `json:"shareToken"`
	ShareSupply uint64        `json:"shareSupply"`
}

func (j *JSONRPCServer) Asset(req *http.Request, args *AssetArgs, reply *AssetReply) error {
	ctx, span := j.e.Tracer().Start(req.Context(), "JSONRPCServer.Asset")
	defer span.End()

	asset, err := j.e.Asset(ctx, args.TokenID)
	if err != nil {
		return err
	}
	supply, err := j.e.ShareSupply(ctx, args.TokenID)
	if err != nil {
		return err
	}
	reply.Asset = *asset
	reply.ShareToken = registry.ShareToken(asset)
	reply.ShareSupply = supply
	return nil
}

type AssetsReply struct {
	Assets []*storage.Asset `json:"assets"`
}

func (j *JSONRPCServer) Assets(req *http.Request, _ *struct{}, reply *AssetsReply) error {
	assets, err := j.e.Assets(req.Context())
	if err != nil {
		return err
	}
	reply.Assets = assets
	return nil
}

type PendingArgs struct {
	Limit int `json:"limit"`
}

type PendingDepositsReply struct {
	Deposits []*storage.PendingDeposit `json:"deposits"`
}

func (j *JSONRPCServer) PendingDeposits(req *http.Request, args *PendingArgs, reply *PendingDepositsReply) error {
	deposits, err := j.e.PendingDeposits(req.Context(), pendingLimit(args.Limit))
	if err != nil {
		return err
	}
	reply.Deposits = deposits
	return nil
}

type PendingExchangesReply struct {
	Exchanges []*storage.PendingExchange `json:"exchanges"`
}

func (j *JSONRPCServer) PendingExchanges(req *http.Request, args *PendingArgs, reply *PendingExchangesReply) error {
	exchanges, err := j.e.PendingExchanges(req.Context(), pendingLimit(args.Limit))
	if err != nil {
		return err
	}
	reply.Exchanges = exchanges
	return nil
}

type ShareBalanceArgs struct {
	Owner   codec.Address `json:"owner"`
	TokenID uint64        `json:"tokenID"`
}

type ShareBalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) ShareBalance(req *http.Request, args *ShareBalanceArgs, reply *ShareBalanceReply) error {
	bal, err := j.e.ShareBalance(req.Context(), args.Owner, args.TokenID)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type HoldingsArgs struct {
	Owner codec.Address `json:"owner"`
}

type HoldingsReply struct {
	Holdings []storage.ShareHolding `json:"holdings"`
}

func (j *JSONRPCServer) Holdings(req *http.Request, args *HoldingsArgs, reply *HoldingsReply) error {
	holdings, err := j.e.Holdings(req.Context(), args.Owner)
	if err != nil {
		return err
	}
	reply.Holdings = holdings
	return nil
}

type BalanceArgs struct {
	Owner    codec.Address `json:"owner"`
	Contract codec.Address `json:"contract"`
	Symbol   string        `json:"symbol"`
}

type BalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	bal, err := j.e.Balance(req.Context(), args.Owner, ledger.Token{Contract: args.Contract, Symbol: args.Symbol})
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type QuoteReply struct {
	Quote matcher.Quote `json:"quote"`
}

func (j *JSONRPCServer) Quote(req *http.Request, args *matcher.ExchangeRequest, reply *QuoteReply) error {
	ctx, span := j.e.Tracer().Start(req.Context(), "JSONRPCServer.Quote")
	defer span.End()

	q, err := j.e.Quote(ctx, args)
	if err != nil {
		return err
	}
	reply.Quote = *q
	return nil
}
