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

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"ultravault.dev/types"
)

// IsSupported reports whether a denom is registered for deposits and
// withdrawals.
func (k *Keeper) IsSupported(ctx context.Context, denom string) (bool, error) {
	_, found, err := k.GetAsset(ctx, denom)
	return found, err
}

// addAsset registers a new accepted asset. Non-pegged assets must name the
// oracle base their rate is published under.
func (k *Keeper) addAsset(ctx context.Context, denom string, pegged bool, rateBase string, decimals uint32) error {
	if denom == "" {
		return sdkerrors.Wrap(types.ErrInvalidRequest, "asset denom cannot be empty")
	}
	if decimals < types.MinAssetDecimals || decimals > types.MaxAssetDecimals {
		return sdkerrors.Wrapf(types.ErrInvalidDecimals, "decimals %d outside [%d, %d]", decimals, types.MinAssetDecimals, types.MaxAssetDecimals)
	}
	if !pegged && rateBase == "" {
		return sdkerrors.Wrap(types.ErrInvalidRequest, "non-pegged asset requires a rate base")
	}

	_, found, err := k.GetAsset(ctx, denom)
	if err != nil {
		return sdkerrors.Wrapf(err, "unable to fetch asset %s", denom)
	}
	if found {
		return sdkerrors.Wrapf(types.ErrAssetExists, "denom %s", denom)
	}

	return k.Assets.Set(ctx, denom, types.AssetData{
		IsPegged: pegged,
		Decimals: decimals,
		RateBase: rateBase,
	})
}

// removeAsset drops an asset from the registry. The base asset is permanent.
func (k *Keeper) removeAsset(ctx context.Context, denom string) error {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}
	if denom == config.BaseDenom {
		return sdkerrors.Wrap(types.ErrInvalidRequest, "base asset cannot be removed")
	}

	if err := k.Assets.Remove(ctx, denom); err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkerrors.Wrapf(types.ErrAssetNotSupported, "denom %s", denom)
		}
		return sdkerrors.Wrapf(err, "unable to remove asset %s", denom)
	}

	return nil
}

// ConvertToUnderlying values an asset amount in base denom units. Pegged
// assets rescale across decimals; non-pegged assets go through their oracle
// pair. Truncation always favors the vault.
func (k *Keeper) ConvertToUnderlying(ctx context.Context, denom string, amount math.Int) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}
	if denom == config.BaseDenom {
		return amount, nil
	}

	asset, found, err := k.GetAsset(ctx, denom)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrapf(err, "unable to fetch asset %s", denom)
	}
	if !found {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrAssetNotSupported, "denom %s", denom)
	}

	if asset.IsPegged {
		return rescaleInt(amount, asset.Decimals, config.BaseDecimals), nil
	}

	// Both directions rescale by the asset's own registered decimals. The
	// rate base is only an oracle pair name and carries no precision of its
	// own.
	price, err := k.GetCurrentPrice(ctx, asset.RateBase, config.BaseDenom)
	if err != nil {
		return math.ZeroInt(), err
	}
	if price.IsZero() {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrNoPriceData, "pair %s/%s", asset.RateBase, config.BaseDenom)
	}

	value := price.MulInt(amount)
	value = rescaleDec(value, asset.Decimals, config.BaseDecimals)

	return value.TruncateInt(), nil
}

// ConvertFromUnderlying values a base denom amount in asset units, the
// inverse of ConvertToUnderlying. Truncation favors the vault here too.
func (k *Keeper) ConvertFromUnderlying(ctx context.Context, denom string, amount math.Int) (math.Int, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}
	if denom == config.BaseDenom {
		return amount, nil
	}

	asset, found, err := k.GetAsset(ctx, denom)
	if err != nil {
		return math.ZeroInt(), sdkerrors.Wrapf(err, "unable to fetch asset %s", denom)
	}
	if !found {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrAssetNotSupported, "denom %s", denom)
	}

	if asset.IsPegged {
		return rescaleInt(amount, config.BaseDecimals, asset.Decimals), nil
	}

	price, err := k.GetCurrentPrice(ctx, asset.RateBase, config.BaseDenom)
	if err != nil {
		return math.ZeroInt(), err
	}
	if price.IsZero() {
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrNoPriceData, "pair %s/%s", asset.RateBase, config.BaseDenom)
	}

	value := math.LegacyNewDecFromInt(amount).Quo(price)
	value = rescaleDec(value, config.BaseDecimals, asset.Decimals)

	return value.TruncateInt(), nil
}
