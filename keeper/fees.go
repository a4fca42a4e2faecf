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
	"time"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

const secondsPerYear = 365 * 24 * 60 * 60

// shareValue quotes one whole share in base denom units.
func (k *Keeper) shareValue(ctx context.Context) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	return k.GetQuote(ctx, oneUnit(config.ShareDecimals), config.ShareDenom, config.BaseDenom)
}

// managementFeeDec is the exact management accrual since the last settlement
// before truncation: total assets times the annual rate, prorated by elapsed
// time.
func (k *Keeper) managementFeeDec(ctx context.Context) (math.LegacyDec, error) {
	fees, err := k.GetFees(ctx)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	if fees.ManagementRate.IsNil() || fees.ManagementRate.IsZero() {
		return math.LegacyZeroDec(), nil
	}

	totalAssets, err := k.TotalAssets(ctx)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	if totalAssets.IsZero() {
		return math.LegacyZeroDec(), nil
	}

	now := k.header.GetHeaderInfo(ctx).Time
	elapsed := now.Sub(fees.LastUpdate)
	if elapsed <= 0 {
		return math.LegacyZeroDec(), nil
	}

	seconds := math.LegacyNewDec(int64(elapsed / time.Second))

	return fees.ManagementRate.MulInt(totalAssets).Mul(seconds).QuoInt64(secondsPerYear), nil
}

// AccruedManagementFee is the management fee earned since the last
// settlement, truncated to whole base units.
func (k *Keeper) AccruedManagementFee(ctx context.Context) (math.Int, error) {
	fee, err := k.managementFeeDec(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	return fee.TruncateInt(), nil
}

// AccruedPerformanceFee is the performance fee on profit above the high-water
// mark, measured per whole share and scaled to the full supply. At or below
// the mark it is zero.
func (k *Keeper) AccruedPerformanceFee(ctx context.Context) (math.Int, error) {
	fees, err := k.GetFees(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if fees.PerformanceRate.IsNil() || fees.PerformanceRate.IsZero() {
		return math.ZeroInt(), nil
	}

	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	supply := k.bank.GetSupply(ctx, config.ShareDenom).Amount
	if supply.IsZero() {
		return math.ZeroInt(), nil
	}

	value, err := k.shareValue(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if fees.HighWaterMark.IsNil() || value.LTE(fees.HighWaterMark) {
		return math.ZeroInt(), nil
	}

	gain := value.Sub(fees.HighWaterMark)
	fee := fees.PerformanceRate.MulInt(gain).MulInt(supply).QuoInt(oneUnit(config.ShareDecimals))

	return fee.TruncateInt(), nil
}

// SettleFees collects both accrued fees by minting shares of matching value
// to the fee recipient, ratchets the high-water mark, and stamps the accrual
// clock. It returns the shares minted. Every value-changing handler settles
// before it moves funds so accrual never spans a rate change.
func (k *Keeper) SettleFees(ctx context.Context) (math.Int, error) {
	managementDec, err := k.managementFeeDec(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to compute management fee")
	}
	management := managementDec.TruncateInt()
	performance, err := k.AccruedPerformanceFee(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to compute performance fee")
	}

	fees, err := k.GetFees(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch fee schedule")
	}

	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	now := k.header.GetHeaderInfo(ctx).Time

	total := management.Add(performance)
	if total.IsZero() {
		// A sub-unit accrual keeps its window open until it truncates to a
		// whole unit; the clock only advances when nothing is accruing.
		if managementDec.IsZero() {
			fees.LastUpdate = now
			if err := k.Fees.Set(ctx, fees); err != nil {
				return math.ZeroInt(), sdkerrors.Wrap(err, "unable to store fee schedule")
			}
		}
		return math.ZeroInt(), nil
	}

	value, err := k.shareValue(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	feeShares, err := k.convertToShares(ctx, total)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to convert fee value to shares")
	}

	if fees.HighWaterMark.IsNil() || value.GT(fees.HighWaterMark) {
		fees.HighWaterMark = value
	}
	fees.LastUpdate = now
	if err := k.Fees.Set(ctx, fees); err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to store fee schedule")
	}

	if feeShares.IsPositive() {
		recipient, err := k.address.StringToBytes(config.FeeRecipient)
		if err != nil {
			return math.ZeroInt(), sdkerrors.Wrapf(types.ErrInvalidRequest, "invalid fee recipient: %s", config.FeeRecipient)
		}

		coins := sdk.NewCoins(sdk.NewCoin(config.ShareDenom, feeShares))
		if err := k.bank.MintCoins(ctx, types.ModuleName, coins); err != nil {
			return math.ZeroInt(), sdkerrors.Wrap(err, "unable to mint fee shares")
		}
		if err := k.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
			return math.ZeroInt(), sdkerrors.Wrap(err, "unable to pay fee shares")
		}

		sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFeesCollected,
				sdk.NewAttribute(types.AttributeKeyShares, feeShares.String()),
				sdk.NewAttribute(types.AttributeKeyAssets, total.String()),
				sdk.NewAttribute(types.AttributeKeyReceiver, config.FeeRecipient),
			),
		)
	}

	return feeShares, nil
}
