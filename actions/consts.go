// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

// Action and result type identifiers. A result shares the identifier of the
// action that produced it.
const (
	ConfigureID uint8 = iota
	ResetAllID
	RegisterAssetID
	DeregisterAssetID
	PrepareDepositID
	PrepareExchangeID
	WithdrawID
	TransferID
	CreateTokenID
	IssueTokenID
)

const withdrawalMemo = "oswaps withdrawal"
