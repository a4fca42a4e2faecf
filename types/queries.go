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
	"time"

	"cosmossdk.io/math"
)

// QueryServer is the read-only surface of the module.
type QueryServer interface {
	Paused(ctx context.Context, req *QueryPaused) (*QueryPausedResponse, error)
	Params(ctx context.Context, req *QueryParams) (*QueryParamsResponse, error)
	VaultConfig(ctx context.Context, req *QueryVaultConfig) (*QueryVaultConfigResponse, error)
	Asset(ctx context.Context, req *QueryAsset) (*QueryAssetResponse, error)
	TotalAssets(ctx context.Context, req *QueryTotalAssets) (*QueryTotalAssetsResponse, error)
	TotalSupply(ctx context.Context, req *QueryTotalSupply) (*QueryTotalSupplyResponse, error)
	CurrentPrice(ctx context.Context, req *QueryCurrentPrice) (*QueryCurrentPriceResponse, error)
	Quote(ctx context.Context, req *QueryQuote) (*QueryQuoteResponse, error)
	PendingRedeem(ctx context.Context, req *QueryPendingRedeem) (*QueryPendingRedeemResponse, error)
	ClaimableRedeem(ctx context.Context, req *QueryClaimableRedeem) (*QueryClaimableRedeemResponse, error)
	MaxDeposit(ctx context.Context, req *QueryMaxDeposit) (*QueryMaxDepositResponse, error)
	MaxMint(ctx context.Context, req *QueryMaxMint) (*QueryMaxMintResponse, error)
	MaxWithdraw(ctx context.Context, req *QueryMaxWithdraw) (*QueryMaxWithdrawResponse, error)
	MaxRedeem(ctx context.Context, req *QueryMaxRedeem) (*QueryMaxRedeemResponse, error)
	PreviewDeposit(ctx context.Context, req *QueryPreviewDeposit) (*QueryPreviewDepositResponse, error)
	PreviewMint(ctx context.Context, req *QueryPreviewMint) (*QueryPreviewMintResponse, error)
	PreviewWithdraw(ctx context.Context, req *QueryPreviewWithdraw) (*QueryPreviewWithdrawResponse, error)
	PreviewRedeem(ctx context.Context, req *QueryPreviewRedeem) (*QueryPreviewRedeemResponse, error)
	Fees(ctx context.Context, req *QueryFees) (*QueryFeesResponse, error)
	AccruedFees(ctx context.Context, req *QueryAccruedFees) (*QueryAccruedFeesResponse, error)
	GuardState(ctx context.Context, req *QueryGuardState) (*QueryGuardStateResponse, error)
}

type QueryPaused struct{}

type QueryPausedResponse struct {
	Paused bool `json:"paused"`
}

type QueryParams struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryVaultConfig struct{}

type QueryVaultConfigResponse struct {
	Config VaultConfig `json:"config"`
}

type QueryAsset struct {
	Denom string `json:"denom"`
}

type QueryAssetResponse struct {
	Asset AssetData `json:"asset"`
}

type QueryTotalAssets struct{}

type QueryTotalAssetsResponse struct {
	TotalAssets math.Int `json:"total_assets"`
}

type QueryTotalSupply struct{}

type QueryTotalSupplyResponse struct {
	TotalSupply math.Int `json:"total_supply"`
}

type QueryCurrentPrice struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
}

type QueryCurrentPriceResponse struct {
	Price         math.LegacyDec `json:"price"`
	Vesting       bool           `json:"vesting"`
	FullVestingAt time.Time      `json:"full_vesting_at,omitempty"`
}

type QueryQuote struct {
	Amount math.Int `json:"amount"`
	Base   string   `json:"base"`
	Quote  string   `json:"quote"`
}

type QueryQuoteResponse struct {
	Amount math.Int `json:"amount"`
}

type QueryPendingRedeem struct {
	Controller string `json:"controller"`
	AssetDenom string `json:"asset_denom"`
}

type QueryPendingRedeemResponse struct {
	Shares      math.Int  `json:"shares"`
	RequestTime time.Time `json:"request_time,omitempty"`
}

type QueryClaimableRedeem struct {
	Controller string `json:"controller"`
	AssetDenom string `json:"asset_denom"`
}

type QueryClaimableRedeemResponse struct {
	Assets math.Int `json:"assets"`
	Shares math.Int `json:"shares"`
}

type QueryMaxDeposit struct {
	Receiver string `json:"receiver"`
}

type QueryMaxDepositResponse struct {
	Amount math.Int `json:"amount"`
}

type QueryMaxMint struct {
	Receiver string `json:"receiver"`
}

type QueryMaxMintResponse struct {
	Shares math.Int `json:"shares"`
}

type QueryMaxWithdraw struct {
	Controller string `json:"controller"`
	AssetDenom string `json:"asset_denom"`
}

type QueryMaxWithdrawResponse struct {
	Assets math.Int `json:"assets"`
}

type QueryMaxRedeem struct {
	Controller string `json:"controller"`
	AssetDenom string `json:"asset_denom"`
}

type QueryMaxRedeemResponse struct {
	Shares math.Int `json:"shares"`
}

type QueryPreviewDeposit struct {
	AssetDenom string   `json:"asset_denom"`
	Assets     math.Int `json:"assets"`
}

type QueryPreviewDepositResponse struct {
	Shares math.Int `json:"shares"`
}

type QueryPreviewMint struct {
	AssetDenom string   `json:"asset_denom"`
	Shares     math.Int `json:"shares"`
}

type QueryPreviewMintResponse struct {
	Assets math.Int `json:"assets"`
}

type QueryPreviewWithdraw struct {
	AssetDenom string   `json:"asset_denom"`
	Assets     math.Int `json:"assets"`
}

type QueryPreviewWithdrawResponse struct {
	Shares math.Int `json:"shares"`
}

type QueryPreviewRedeem struct {
	AssetDenom string   `json:"asset_denom"`
	Shares     math.Int `json:"shares"`
}

type QueryPreviewRedeemResponse struct {
	Assets math.Int `json:"assets"`
}

type QueryFees struct{}

type QueryFeesResponse struct {
	Fees Fees `json:"fees"`
}

type QueryAccruedFees struct{}

type QueryAccruedFeesResponse struct {
	Management  math.Int `json:"management"`
	Performance math.Int `json:"performance"`
}

type QueryGuardState struct{}

type QueryGuardStateResponse struct {
	Config GuardConfig `json:"config"`
	Trips  []GuardTrip `json:"trips"`
}
