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

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"ultravault.dev/types"
)

// ShareSupply returns the outstanding share supply from the bank.
func (k *Keeper) ShareSupply(ctx context.Context) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	return k.bank.GetSupply(ctx, config.ShareDenom).Amount, nil
}

// TotalAssets values the entire share supply in base denom units through the
// oracle's share price.
func (k *Keeper) TotalAssets(ctx context.Context) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	supply := k.bank.GetSupply(ctx, config.ShareDenom).Amount
	if supply.IsZero() {
		return math.ZeroInt(), nil
	}

	return k.GetQuote(ctx, supply, config.ShareDenom, config.BaseDenom)
}

// convertToShares converts a base denom amount into shares at the current
// exchange rate, flooring in the vault's favor. The very first deposit
// converts one-to-one across the two precisions.
func (k *Keeper) convertToShares(ctx context.Context, baseAmount math.Int) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	supply := k.bank.GetSupply(ctx, config.ShareDenom).Amount
	if supply.IsZero() {
		return rescaleInt(baseAmount, config.BaseDecimals, config.ShareDecimals), nil
	}

	totalAssets, err := k.TotalAssets(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if totalAssets.IsZero() {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrNoPriceData, "share supply has no value")
	}

	return mulDivFloor(baseAmount, supply, totalAssets), nil
}

// convertToAssets converts shares into base denom units, flooring.
func (k *Keeper) convertToAssets(ctx context.Context, shares math.Int) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	supply := k.bank.GetSupply(ctx, config.ShareDenom).Amount
	if supply.IsZero() {
		return rescaleInt(shares, config.ShareDecimals, config.BaseDecimals), nil
	}

	totalAssets, err := k.TotalAssets(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	return mulDivFloor(shares, totalAssets, supply), nil
}

// convertToAssetsCeil is convertToAssets rounding up, used when the caller
// owes the vault (exact-share mints).
func (k *Keeper) convertToAssetsCeil(ctx context.Context, shares math.Int) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	supply := k.bank.GetSupply(ctx, config.ShareDenom).Amount
	if supply.IsZero() {
		return rescaleInt(shares, config.ShareDecimals, config.BaseDecimals), nil
	}

	totalAssets, err := k.TotalAssets(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}

	return mulDivCeil(shares, totalAssets, supply), nil
}

// MaxDeposit returns the remaining deposit capacity in base denom units.
// Zero while paused; the unlimited sentinel when no cap is configured.
func (k *Keeper) MaxDeposit(ctx context.Context) (math.Int, error) {
	paused, err := k.GetPaused(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if paused {
		return math.ZeroInt(), nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if params.DepositCap.IsNil() || params.DepositCap.IsZero() {
		return types.UnlimitedAmount, nil
	}

	totalAssets, err := k.TotalAssets(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if totalAssets.GTE(params.DepositCap) {
		return math.ZeroInt(), nil
	}

	return params.DepositCap.Sub(totalAssets), nil
}

// MaxMint is MaxDeposit expressed in shares.
func (k *Keeper) MaxMint(ctx context.Context) (math.Int, error) {
	capacity, err := k.MaxDeposit(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if capacity.Equal(types.UnlimitedAmount) {
		return types.UnlimitedAmount, nil
	}
	if capacity.IsZero() {
		return math.ZeroInt(), nil
	}

	return k.convertToShares(ctx, capacity)
}

// PreviewDeposit reports the shares a base denom deposit would mint right
// now. Zero while paused, matching the deposit gate.
func (k *Keeper) PreviewDeposit(ctx context.Context, denom string, assets math.Int) (math.Int, error) {
	paused, err := k.GetPaused(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if paused {
		return math.ZeroInt(), nil
	}

	base, err := k.ConvertToUnderlying(ctx, denom, assets)
	if err != nil {
		return math.ZeroInt(), err
	}

	return k.convertToShares(ctx, base)
}

// PreviewMint reports the asset cost of minting an exact share count. Zero
// while paused.
func (k *Keeper) PreviewMint(ctx context.Context, denom string, shares math.Int) (math.Int, error) {
	paused, err := k.GetPaused(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if paused {
		return math.ZeroInt(), nil
	}

	base, err := k.convertToAssetsCeil(ctx, shares)
	if err != nil {
		return math.ZeroInt(), err
	}

	return k.ConvertFromUnderlying(ctx, denom, base)
}

// mulDivFloor computes a*b/c rounding toward zero.
func mulDivFloor(a, b, c math.Int) math.Int {
	return a.Mul(b).Quo(c)
}

// mulDivCeil computes a*b/c rounding away from zero.
func mulDivCeil(a, b, c math.Int) math.Int {
	return a.Mul(b).Add(c.SubRaw(1)).Quo(c)
}
