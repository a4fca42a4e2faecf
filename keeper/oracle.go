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
	"errors"
	"time"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"ultravault.dev/types"
)

// GetPrice fetches the raw stored price record for a pair. The boolean flag
// indicates existence.
func (k *Keeper) GetPrice(ctx context.Context, base, quote string) (types.Price, bool, error) {
	price, err := k.Prices.Get(ctx, collections.Join(base, quote))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Price{}, false, nil
		}
		return types.Price{}, false, err
	}

	return price, true, nil
}

// GetCurrentPrice resolves the effective price of a pair at block time,
// interpolating linearly while a scheduled update is still vesting. An
// unknown pair resolves to zero.
func (k *Keeper) GetCurrentPrice(ctx context.Context, base, quote string) (math.LegacyDec, error) {
	price, found, err := k.GetPrice(ctx, base, quote)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	if !found {
		return math.LegacyZeroDec(), nil
	}

	now := k.header.GetHeaderInfo(ctx).Time

	return price.CurrentAt(now), nil
}

// setFixedPrice validates the update against the safety guard and stores it
// as a non-vesting price. The boolean reports whether the guard let the
// update through; a dropped update is not an error so the guard's pause and
// trip record survive the transaction.
func (k *Keeper) setFixedPrice(ctx context.Context, base, quote string, price math.LegacyDec) (bool, error) {
	if price.IsNil() || price.IsNegative() {
		return false, sdkerrors.Wrap(types.ErrInvalidAmount, "price cannot be negative")
	}

	applied, err := k.checkPriceUpdate(ctx, base, quote, price)
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	now := k.header.GetHeaderInfo(ctx).Time

	return true, k.Prices.Set(ctx, collections.Join(base, quote), types.Price{
		Price:       price,
		TargetPrice: price,
		LastUpdated: now,
	})
}

// scheduleLinearPriceUpdate stores a price that ramps from the current
// interpolated value to target over the vesting period. Scheduling on top of
// an active ramp restarts from wherever the ramp currently is. The boolean
// reports whether the guard let the target through.
func (k *Keeper) scheduleLinearPriceUpdate(ctx context.Context, base, quote string, target math.LegacyDec, vesting time.Duration) (bool, error) {
	if target.IsNil() || !target.IsPositive() {
		return false, sdkerrors.Wrap(types.ErrInvalidAmount, "target price must be positive")
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return false, sdkerrors.Wrap(err, "unable to fetch parameters")
	}
	seconds := int64(vesting / time.Second)
	if seconds < params.MinVestingPeriod || seconds > params.MaxVestingPeriod {
		return false, sdkerrors.Wrapf(types.ErrInvalidVestingTime, "vesting of %ds outside [%ds, %ds]", seconds, params.MinVestingPeriod, params.MaxVestingPeriod)
	}

	start, err := k.GetCurrentPrice(ctx, base, quote)
	if err != nil {
		return false, sdkerrors.Wrap(err, "unable to resolve current price")
	}
	if start.IsZero() {
		return false, sdkerrors.Wrapf(types.ErrZeroVestingStartPrice, "pair %s/%s", base, quote)
	}

	applied, err := k.checkPriceUpdate(ctx, base, quote, target)
	if err != nil {
		return false, err
	}
	if !applied {
		return false, nil
	}

	now := k.header.GetHeaderInfo(ctx).Time

	return true, k.Prices.Set(ctx, collections.Join(base, quote), types.Price{
		Price:         start,
		TargetPrice:   target,
		LastUpdated:   now,
		FullVestingAt: now.Add(vesting),
	})
}

// GetQuote values amount of base denom in quote denom units at the current
// price, rescaling across the two denoms' decimals and truncating.
func (k *Keeper) GetQuote(ctx context.Context, amount math.Int, base, quote string) (math.Int, error) {
	if amount.IsNil() || amount.IsNegative() {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrInvalidAmount, "quote amount cannot be negative")
	}
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}

	price, err := k.GetCurrentPrice(ctx, base, quote)
	if err != nil {
		return math.ZeroInt(), err
	}
	if price.IsZero() {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrNoPriceData, "pair %s/%s", base, quote)
	}

	baseDecimals, err := k.decimalsOf(ctx, base)
	if err != nil {
		return math.ZeroInt(), err
	}
	quoteDecimals, err := k.decimalsOf(ctx, quote)
	if err != nil {
		return math.ZeroInt(), err
	}

	value := price.MulInt(amount)
	value = rescaleDec(value, baseDecimals, quoteDecimals)

	return value.TruncateInt(), nil
}

// decimalsOf resolves the precision of a denom: the share and base denoms
// come from the vault configuration, registered assets from the registry, and
// everything else falls back to the conventional 18.
func (k *Keeper) decimalsOf(ctx context.Context, denom string) (uint32, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return 0, sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}

	switch denom {
	case config.ShareDenom:
		return config.ShareDecimals, nil
	case config.BaseDenom:
		return config.BaseDecimals, nil
	}

	asset, found, err := k.GetAsset(ctx, denom)
	if err != nil {
		return 0, sdkerrors.Wrapf(err, "unable to fetch asset %s", denom)
	}
	if found {
		return asset.Decimals, nil
	}

	return types.DefaultAssetDecimals, nil
}

// rescaleDec shifts a decimal value between precisions.
func rescaleDec(value math.LegacyDec, from, to uint32) math.LegacyDec {
	if from == to {
		return value
	}
	if to > from {
		return value.MulInt(math.NewIntWithDecimal(1, int(to-from)))
	}

	return value.QuoInt(math.NewIntWithDecimal(1, int(from-to)))
}

// rescaleInt shifts an integer amount between precisions, truncating when
// precision drops.
func rescaleInt(amount math.Int, from, to uint32) math.Int {
	if from == to {
		return amount
	}
	if to > from {
		return amount.Mul(math.NewIntWithDecimal(1, int(to-from)))
	}

	return amount.Quo(math.NewIntWithDecimal(1, int(from-to)))
}
