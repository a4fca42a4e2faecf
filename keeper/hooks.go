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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

// DirectCustodyHooks forwards every deposit to the configured custodian and
// expects the custodian to return liquidity to the vault account before
// fulfillments are processed.
type DirectCustodyHooks struct {
	keeper *Keeper
}

var _ types.VaultHooks = DirectCustodyHooks{}

func NewDirectCustodyHooks(keeper *Keeper) DirectCustodyHooks {
	return DirectCustodyHooks{keeper: keeper}
}

func (h DirectCustodyHooks) BeforeDeposit(context.Context, sdk.AccAddress, sdk.Coin) error {
	return nil
}

func (h DirectCustodyHooks) AfterDeposit(ctx context.Context, _ sdk.AccAddress, assets sdk.Coin, _ math.Int) error {
	config, err := h.keeper.GetConfig(ctx)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to fetch vault configuration")
	}
	if config.Custodian == "" {
		return nil
	}

	custodian, err := h.keeper.address.StringToBytes(config.Custodian)
	if err != nil {
		return sdkerrors.Wrapf(types.ErrInvalidRequest, "invalid custodian address: %s", config.Custodian)
	}

	if err := h.keeper.bank.SendCoins(ctx, types.ModuleAddress, custodian, sdk.NewCoins(assets)); err != nil {
		return sdkerrors.Wrap(err, "unable to forward deposit to custodian")
	}

	return nil
}

func (h DirectCustodyHooks) BeforeFulfillRedeem(context.Context, sdk.AccAddress, string, math.Int) error {
	return nil
}

func (h DirectCustodyHooks) AfterFulfillRedeem(_ context.Context, _ sdk.AccAddress, _ string, _, assets math.Int) (math.Int, error) {
	return assets, nil
}

// FeederHooks routes deposits to an inner liquidity account and draws
// fulfillment liquidity back from it. When the feeder cannot cover the full
// quote, the credited amount is reconciled down to what actually settled.
type FeederHooks struct {
	keeper *Keeper
	feeder sdk.AccAddress
}

var _ types.VaultHooks = FeederHooks{}

func NewFeederHooks(keeper *Keeper, feeder sdk.AccAddress) FeederHooks {
	return FeederHooks{keeper: keeper, feeder: feeder}
}

func (h FeederHooks) BeforeDeposit(context.Context, sdk.AccAddress, sdk.Coin) error {
	return nil
}

func (h FeederHooks) AfterDeposit(ctx context.Context, _ sdk.AccAddress, assets sdk.Coin, _ math.Int) error {
	if err := h.keeper.bank.SendCoins(ctx, types.ModuleAddress, h.feeder, sdk.NewCoins(assets)); err != nil {
		return sdkerrors.Wrap(err, "unable to route deposit to feeder")
	}

	return nil
}

func (h FeederHooks) BeforeFulfillRedeem(context.Context, sdk.AccAddress, string, math.Int) error {
	return nil
}

func (h FeederHooks) AfterFulfillRedeem(ctx context.Context, _ sdk.AccAddress, asset string, _, assets math.Int) (math.Int, error) {
	available := h.keeper.bank.GetBalance(ctx, h.feeder, asset).Amount
	settled := math.MinInt(assets, available)
	if !settled.IsPositive() {
		return math.ZeroInt(), sdkerrors.Wrap(types.ErrInsufficientBalance, "feeder has no liquidity for fulfillment")
	}

	coins := sdk.NewCoins(sdk.NewCoin(asset, settled))
	if err := h.keeper.bank.SendCoins(ctx, h.feeder, types.ModuleAddress, coins); err != nil {
		return math.ZeroInt(), sdkerrors.Wrap(err, "unable to draw liquidity from feeder")
	}

	return settled, nil
}
