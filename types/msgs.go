// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer is the state-mutating surface of the module. Handlers execute
// atomically and in sequence under the host's message delivery, so no handler
// ever observes another handler mid-flight.
type MsgServer interface {
	// Oracle management.
	SetPrice(ctx context.Context, msg *MsgSetPrice) (*MsgSetPriceResponse, error)
	SetPrices(ctx context.Context, msg *MsgSetPrices) (*MsgSetPricesResponse, error)
	SchedulePriceUpdate(ctx context.Context, msg *MsgSchedulePriceUpdate) (*MsgSchedulePriceUpdateResponse, error)
	SchedulePriceUpdates(ctx context.Context, msg *MsgSchedulePriceUpdates) (*MsgSchedulePriceUpdatesResponse, error)

	// Asset registry.
	AddAsset(ctx context.Context, msg *MsgAddAsset) (*MsgAddAssetResponse, error)
	RemoveAsset(ctx context.Context, msg *MsgRemoveAsset) (*MsgRemoveAssetResponse, error)

	// Share issuance.
	Deposit(ctx context.Context, msg *MsgDeposit) (*MsgDepositResponse, error)
	Mint(ctx context.Context, msg *MsgMint) (*MsgMintResponse, error)

	// Asynchronous redemption.
	SetOperator(ctx context.Context, msg *MsgSetOperator) (*MsgSetOperatorResponse, error)
	RequestRedeem(ctx context.Context, msg *MsgRequestRedeem) (*MsgRequestRedeemResponse, error)
	FulfillRedeem(ctx context.Context, msg *MsgFulfillRedeem) (*MsgFulfillRedeemResponse, error)
	FulfillMultipleRedeems(ctx context.Context, msg *MsgFulfillMultipleRedeems) (*MsgFulfillMultipleRedeemsResponse, error)
	CancelRedeemRequest(ctx context.Context, msg *MsgCancelRedeemRequest) (*MsgCancelRedeemRequestResponse, error)
	Withdraw(ctx context.Context, msg *MsgWithdraw) (*MsgWithdrawResponse, error)
	Redeem(ctx context.Context, msg *MsgRedeem) (*MsgRedeemResponse, error)

	// Administration.
	SetFees(ctx context.Context, msg *MsgSetFees) (*MsgSetFeesResponse, error)
	CollectFees(ctx context.Context, msg *MsgCollectFees) (*MsgCollectFeesResponse, error)
	Pause(ctx context.Context, msg *MsgPause) (*MsgPauseResponse, error)
	Unpause(ctx context.Context, msg *MsgUnpause) (*MsgUnpauseResponse, error)
	SetManager(ctx context.Context, msg *MsgSetManager) (*MsgSetManagerResponse, error)
	SetGuardConfig(ctx context.Context, msg *MsgSetGuardConfig) (*MsgSetGuardConfigResponse, error)
	SetParams(ctx context.Context, msg *MsgSetParams) (*MsgSetParamsResponse, error)
	ProposeAddress(ctx context.Context, msg *MsgProposeAddress) (*MsgProposeAddressResponse, error)
	AcceptProposedAddress(ctx context.Context, msg *MsgAcceptProposedAddress) (*MsgAcceptProposedAddressResponse, error)
}

type MsgSetPrice struct {
	Signer string         `json:"signer"`
	Base   string         `json:"base"`
	Quote  string         `json:"quote"`
	Price  math.LegacyDec `json:"price"`
}

type MsgSetPriceResponse struct {
	Applied bool `json:"applied"`
}

type MsgSetPrices struct {
	Signer string           `json:"signer"`
	Bases  []string         `json:"bases"`
	Quotes []string         `json:"quotes"`
	Prices []math.LegacyDec `json:"prices"`
}

type MsgSetPricesResponse struct {
	Applied []bool `json:"applied"`
}

type MsgSchedulePriceUpdate struct {
	Signer         string         `json:"signer"`
	Base           string         `json:"base"`
	Quote          string         `json:"quote"`
	TargetPrice    math.LegacyDec `json:"target_price"`
	VestingSeconds int64          `json:"vesting_seconds"`
}

type MsgSchedulePriceUpdateResponse struct {
	Applied bool `json:"applied"`
}

type MsgSchedulePriceUpdates struct {
	Signer         string           `json:"signer"`
	Bases          []string         `json:"bases"`
	Quotes         []string         `json:"quotes"`
	TargetPrices   []math.LegacyDec `json:"target_prices"`
	VestingSeconds int64            `json:"vesting_seconds"`
}

type MsgSchedulePriceUpdatesResponse struct {
	Applied []bool `json:"applied"`
}

type MsgAddAsset struct {
	Signer   string `json:"signer"`
	Denom    string `json:"denom"`
	Pegged   bool   `json:"pegged"`
	RateBase string `json:"rate_base,omitempty"`
	Decimals uint32 `json:"decimals"`
}

type MsgAddAssetResponse struct{}

type MsgRemoveAsset struct {
	Signer string `json:"signer"`
	Denom  string `json:"denom"`
}

type MsgRemoveAssetResponse struct{}

type MsgDeposit struct {
	Signer   string   `json:"signer"`
	Amount   sdk.Coin `json:"amount"`
	Receiver string   `json:"receiver"`
}

type MsgDepositResponse struct {
	Shares math.Int `json:"shares"`
}

// MsgMint requests an exact number of shares; the handler computes and pulls
// the asset cost.
type MsgMint struct {
	Signer     string   `json:"signer"`
	Shares     math.Int `json:"shares"`
	AssetDenom string   `json:"asset_denom"`
	Receiver   string   `json:"receiver"`
}

type MsgMintResponse struct {
	Assets math.Int `json:"assets"`
}

type MsgSetOperator struct {
	Signer   string `json:"signer"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type MsgSetOperatorResponse struct{}

// MsgRequestRedeem escrows shares owned by Owner and accumulates them in
// Controller's pending slot for AssetDenom. Signer must be the owner or an
// approved operator of the owner.
type MsgRequestRedeem struct {
	Signer     string   `json:"signer"`
	Owner      string   `json:"owner"`
	Controller string   `json:"controller"`
	Shares     math.Int `json:"shares"`
	AssetDenom string   `json:"asset_denom"`
}

type MsgRequestRedeemResponse struct {
	RequestId uint64 `json:"request_id"`
}

type MsgFulfillRedeem struct {
	Signer     string   `json:"signer"`
	Controller string   `json:"controller"`
	AssetDenom string   `json:"asset_denom"`
	Shares     math.Int `json:"shares"`
}

type MsgFulfillRedeemResponse struct {
	Assets math.Int `json:"assets"`
	Fee    math.Int `json:"fee"`
}

type MsgFulfillMultipleRedeems struct {
	Signer      string     `json:"signer"`
	Controllers []string   `json:"controllers"`
	AssetDenoms []string   `json:"asset_denoms"`
	Shares      []math.Int `json:"shares"`
}

type MsgFulfillMultipleRedeemsResponse struct {
	TotalAssets math.Int `json:"total_assets"`
}

type MsgCancelRedeemRequest struct {
	Signer     string `json:"signer"`
	Controller string `json:"controller"`
	Receiver   string `json:"receiver"`
	AssetDenom string `json:"asset_denom"`
}

type MsgCancelRedeemRequestResponse struct {
	Shares math.Int `json:"shares"`
}

// MsgWithdraw claims an exact asset amount from the controller's claimable
// bucket; the proportional shares are consumed.
type MsgWithdraw struct {
	Signer     string   `json:"signer"`
	Controller string   `json:"controller"`
	Receiver   string   `json:"receiver"`
	AssetDenom string   `json:"asset_denom"`
	Assets     math.Int `json:"assets"`
}

type MsgWithdrawResponse struct {
	Shares math.Int `json:"shares"`
}

// MsgRedeem claims by exact share count; the proportional assets are paid out.
type MsgRedeem struct {
	Signer     string   `json:"signer"`
	Controller string   `json:"controller"`
	Receiver   string   `json:"receiver"`
	AssetDenom string   `json:"asset_denom"`
	Shares     math.Int `json:"shares"`
}

type MsgRedeemResponse struct {
	Assets math.Int `json:"assets"`
}

type MsgSetFees struct {
	Signer          string         `json:"signer"`
	PerformanceRate math.LegacyDec `json:"performance_rate"`
	ManagementRate  math.LegacyDec `json:"management_rate"`
	WithdrawalRate  math.LegacyDec `json:"withdrawal_rate"`
}

type MsgSetFeesResponse struct{}

type MsgCollectFees struct {
	Signer string `json:"signer"`
}

type MsgCollectFeesResponse struct {
	Shares math.Int `json:"shares"`
}

type MsgPause struct {
	Signer string `json:"signer"`
}

type MsgPauseResponse struct{}

type MsgUnpause struct {
	Signer string `json:"signer"`
}

type MsgUnpauseResponse struct{}

type MsgSetManager struct {
	Signer   string `json:"signer"`
	Manager  string `json:"manager"`
	Approved bool   `json:"approved"`
}

type MsgSetManagerResponse struct{}

type MsgSetGuardConfig struct {
	Signer        string         `json:"signer"`
	MaxPriceJump  math.LegacyDec `json:"max_price_jump"`
	MaxDrawdown   math.LegacyDec `json:"max_drawdown"`
	ApplyAndPause bool           `json:"apply_and_pause"`
}

type MsgSetGuardConfigResponse struct{}

type MsgSetParams struct {
	Signer string `json:"signer"`
	Params Params `json:"params"`
}

type MsgSetParamsResponse struct{}

type MsgProposeAddress struct {
	Signer  string `json:"signer"`
	Kind    string `json:"kind"`
	Address string `json:"address"`
}

type MsgProposeAddressResponse struct{}

type MsgAcceptProposedAddress struct {
	Signer string `json:"signer"`
	Kind   string `json:"kind"`
}

type MsgAcceptProposedAddressResponse struct {
	Address string `json:"address"`
}
