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

package keeper

import (
	"context"

	"cosmossdk.io/errors"

	"ultravault.dev/types"
)

var _ types.QueryServer = &queryServer{}

type queryServer struct {
	*Keeper
}

func NewQueryServer(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

func (q queryServer) Paused(ctx context.Context, req *types.QueryPaused) (*types.QueryPausedResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	paused, err := q.GetPaused(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryPausedResponse{Paused: paused}, nil
}

func (q queryServer) Params(ctx context.Context, req *types.QueryParams) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	params, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryParamsResponse{Params: params}, nil
}

func (q queryServer) VaultConfig(ctx context.Context, req *types.QueryVaultConfig) (*types.QueryVaultConfigResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	config, err := q.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryVaultConfigResponse{Config: config}, nil
}

func (q queryServer) Asset(ctx context.Context, req *types.QueryAsset) (*types.QueryAssetResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	asset, found, err := q.GetAsset(ctx, req.Denom)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(types.ErrAssetNotSupported, "denom %s", req.Denom)
	}

	return &types.QueryAssetResponse{Asset: asset}, nil
}

func (q queryServer) TotalAssets(ctx context.Context, req *types.QueryTotalAssets) (*types.QueryTotalAssetsResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	total, err := q.Keeper.TotalAssets(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryTotalAssetsResponse{TotalAssets: total}, nil
}

func (q queryServer) TotalSupply(ctx context.Context, req *types.QueryTotalSupply) (*types.QueryTotalSupplyResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	supply, err := q.ShareSupply(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryTotalSupplyResponse{TotalSupply: supply}, nil
}

func (q queryServer) CurrentPrice(ctx context.Context, req *types.QueryCurrentPrice) (*types.QueryCurrentPriceResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	price, found, err := q.GetPrice(ctx, req.Base, req.Quote)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(types.ErrNoPriceData, "pair %s/%s", req.Base, req.Quote)
	}

	now := q.header.GetHeaderInfo(ctx).Time

	return &types.QueryCurrentPriceResponse{
		Price:         price.CurrentAt(now),
		Vesting:       price.IsVesting(now),
		FullVestingAt: price.FullVestingAt,
	}, nil
}

func (q queryServer) Quote(ctx context.Context, req *types.QueryQuote) (*types.QueryQuoteResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	amount, err := q.GetQuote(ctx, req.Amount, req.Base, req.Quote)
	if err != nil {
		return nil, err
	}

	return &types.QueryQuoteResponse{Amount: amount}, nil
}

func (q queryServer) PendingRedeem(ctx context.Context, req *types.QueryPendingRedeem) (*types.QueryPendingRedeemResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	controller, err := q.address.StringToBytes(req.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", req.Controller)
	}

	pending, err := q.GetPendingRedeem(ctx, controller, types.ModuleAddress, req.AssetDenom)
	if err != nil {
		return nil, err
	}

	return &types.QueryPendingRedeemResponse{
		Shares:      pending.Shares,
		RequestTime: pending.RequestTime,
	}, nil
}

func (q queryServer) ClaimableRedeem(ctx context.Context, req *types.QueryClaimableRedeem) (*types.QueryClaimableRedeemResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	controller, err := q.address.StringToBytes(req.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", req.Controller)
	}

	claimable, err := q.GetClaimableRedeem(ctx, controller, types.ModuleAddress, req.AssetDenom)
	if err != nil {
		return nil, err
	}

	return &types.QueryClaimableRedeemResponse{
		Assets: claimable.Assets,
		Shares: claimable.Shares,
	}, nil
}

func (q queryServer) MaxDeposit(ctx context.Context, req *types.QueryMaxDeposit) (*types.QueryMaxDepositResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	amount, err := q.Keeper.MaxDeposit(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryMaxDepositResponse{Amount: amount}, nil
}

func (q queryServer) MaxMint(ctx context.Context, req *types.QueryMaxMint) (*types.QueryMaxMintResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	shares, err := q.Keeper.MaxMint(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryMaxMintResponse{Shares: shares}, nil
}

func (q queryServer) MaxWithdraw(ctx context.Context, req *types.QueryMaxWithdraw) (*types.QueryMaxWithdrawResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	controller, err := q.address.StringToBytes(req.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", req.Controller)
	}

	claimable, err := q.GetClaimableRedeem(ctx, controller, types.ModuleAddress, req.AssetDenom)
	if err != nil {
		return nil, err
	}

	return &types.QueryMaxWithdrawResponse{Assets: claimable.Assets}, nil
}

func (q queryServer) MaxRedeem(ctx context.Context, req *types.QueryMaxRedeem) (*types.QueryMaxRedeemResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	controller, err := q.address.StringToBytes(req.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", req.Controller)
	}

	claimable, err := q.GetClaimableRedeem(ctx, controller, types.ModuleAddress, req.AssetDenom)
	if err != nil {
		return nil, err
	}

	return &types.QueryMaxRedeemResponse{Shares: claimable.Shares}, nil
}

func (q queryServer) PreviewDeposit(ctx context.Context, req *types.QueryPreviewDeposit) (*types.QueryPreviewDepositResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	shares, err := q.Keeper.PreviewDeposit(ctx, req.AssetDenom, req.Assets)
	if err != nil {
		return nil, err
	}

	return &types.QueryPreviewDepositResponse{Shares: shares}, nil
}

func (q queryServer) PreviewMint(ctx context.Context, req *types.QueryPreviewMint) (*types.QueryPreviewMintResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	assets, err := q.Keeper.PreviewMint(ctx, req.AssetDenom, req.Shares)
	if err != nil {
		return nil, err
	}

	return &types.QueryPreviewMintResponse{Assets: assets}, nil
}

// PreviewWithdraw cannot be answered synchronously: the settlement price of
// an asynchronous redemption is only fixed at fulfillment.
func (q queryServer) PreviewWithdraw(ctx context.Context, req *types.QueryPreviewWithdraw) (*types.QueryPreviewWithdrawResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	return nil, types.ErrUnsupportedPreview
}

// PreviewRedeem is unsupported for the same reason as PreviewWithdraw.
func (q queryServer) PreviewRedeem(ctx context.Context, req *types.QueryPreviewRedeem) (*types.QueryPreviewRedeemResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	return nil, types.ErrUnsupportedPreview
}

func (q queryServer) Fees(ctx context.Context, req *types.QueryFees) (*types.QueryFeesResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	fees, err := q.GetFees(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryFeesResponse{Fees: fees}, nil
}

func (q queryServer) AccruedFees(ctx context.Context, req *types.QueryAccruedFees) (*types.QueryAccruedFeesResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	management, err := q.AccruedManagementFee(ctx)
	if err != nil {
		return nil, err
	}
	performance, err := q.AccruedPerformanceFee(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryAccruedFeesResponse{
		Management:  management,
		Performance: performance,
	}, nil
}

func (q queryServer) GuardState(ctx context.Context, req *types.QueryGuardState) (*types.QueryGuardStateResponse, error) {
	if req == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "request cannot be nil")
	}

	config, err := q.GetGuardConfig(ctx)
	if err != nil {
		return nil, err
	}
	trips, err := q.GetGuardTrips(ctx)
	if err != nil {
		return nil, err
	}

	return &types.QueryGuardStateResponse{
		Config: config,
		Trips:  trips,
	}, nil
}
