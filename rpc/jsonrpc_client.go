// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/oswaps/actions"
	"github.com/ava-labs/oswaps/auth"
	"github.com/ava-labs/oswaps/codec"
	"github.com/ava-labs/oswaps/ledger"
	"github.com/ava-labs/oswaps/matcher"
	"github.com/ava-labs/oswaps/storage"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// SubmitBytes submits an already signed request.
func (cli *JSONRPCClient) SubmitBytes(ctx context.Context, b []byte) (*SubmitReply, error) {
	resp := new(SubmitReply)
	err := cli.requester.SendRequest(ctx,
		Name+".submit",
		&SubmitArgs{Request: b},
		resp,
	)
	return resp, err
}

// Submit signs [action] with [f] and submits it. If [result] is not nil the
// action result is decoded into it.
func (cli *JSONRPCClient) Submit(
	ctx context.Context,
	f *auth.ED25519Factory,
	expiry int64,
	action actions.Action,
	result any,
) (*SubmitReply, error) {
	req := actions.NewRequest(expiry, action).Sign(f)
	resp, err := cli.SubmitBytes(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (cli *JSONRPCClient) Config(ctx context.Context) (*storage.Config, error) {
	resp := new(ConfigReply)
	err := cli.requester.SendRequest(ctx,
		Name+".config",
		nil,
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

func (cli *JSONRPCClient) Asset(ctx context.Context, tokenID uint64) (*AssetReply, error) {
	resp := new(AssetReply)
	err := cli.requester.SendRequest(ctx,
		Name+".asset",
		&AssetArgs{TokenID: tokenID},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Assets(ctx context.Context) ([]*storage.Asset, error) {
	resp := new(AssetsReply)
	err := cli.requester.SendRequest(ctx,
		Name+".assets",
		nil,
		resp,
	)
	return resp.Assets, err
}

func (cli *JSONRPCClient) PendingDeposits(ctx context.Context, limit int) ([]*storage.PendingDeposit, error) {
	resp := new(PendingDepositsReply)
	err := cli.requester.SendRequest(ctx,
		Name+".pendingDeposits",
		&PendingArgs{Limit: limit},
		resp,
	)
	return resp.Deposits, err
}

func (cli *JSONRPCClient) PendingExchanges(ctx context.Context, limit int) ([]*storage.PendingExchange, error) {
	resp := new(PendingExchangesReply)
	err := cli.requester.SendRequest(ctx,
		Name+".pendingExchanges",
		&PendingArgs{Limit: limit},
		resp,
	)
	return resp.Exchanges, err
}

func (cli *JSONRPCClient) ShareBalance(ctx context.Context, owner codec.Address, tokenID uint64) (uint64, error) {
	resp := new(ShareBalanceReply)
	err := cli.requester.SendRequest(ctx,
		Name+".shareBalance",
		&ShareBalanceArgs{Owner: owner, TokenID: tokenID},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Holdings(ctx context.Context, owner codec.Address) ([]storage.ShareHolding, error) {
	resp := new(HoldingsReply)
	err := cli.requester.SendRequest(ctx,
		Name+".holdings",
		&HoldingsArgs{Owner: owner},
		resp,
	)
	return resp.Holdings, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, owner codec.Address, token ledger.Token) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.requester.SendRequest(ctx,
		Name+".balance",
		&BalanceArgs{Owner: owner, Contract: token.Contract, Symbol: token.Symbol},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Quote(ctx context.Context, req *matcher.ExchangeRequest) (*matcher.Quote, error) {
	resp := new(QuoteReply)
	err := cli.requester.SendRequest(ctx,
		Name+".quote",
		req,
		resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp.Quote, nil
}
