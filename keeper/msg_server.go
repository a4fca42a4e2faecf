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

	"cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

var _ types.MsgServer = &msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// requireAuthority checks that the signer is the module authority.
func (m msgServer) requireAuthority(signer string) error {
	if signer != m.authority {
		return errors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", m.authority, signer)
	}

	return nil
}

// requireOracleManager checks that the signer may write prices.
func (m msgServer) requireOracleManager(ctx context.Context, signer string) error {
	if signer == m.authority {
		return nil
	}

	config, err := m.GetConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault configuration")
	}
	if signer != config.OracleManager {
		return errors.Wrap(types.ErrUnauthorized, "signer is not the oracle manager")
	}

	return nil
}

// requireRateProvider checks that the signer may manage the asset registry.
func (m msgServer) requireRateProvider(ctx context.Context, signer string) error {
	if signer == m.authority {
		return nil
	}

	config, err := m.GetConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault configuration")
	}
	if signer != config.RateProvider {
		return errors.Wrap(types.ErrUnauthorized, "signer is not the rate provider")
	}

	return nil
}

// requireManager checks that the signer is the authority or a registered
// vault manager.
func (m msgServer) requireManager(ctx context.Context, signer string) error {
	if signer == m.authority {
		return nil
	}

	bz, err := m.address.StringToBytes(signer)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidRequest, "invalid signer address: %s", signer)
	}

	approved, err := m.IsManager(ctx, types.ModuleAddress, sdk.AccAddress(bz))
	if err != nil {
		return errors.Wrap(err, "unable to check manager registration")
	}
	if !approved {
		return errors.Wrap(types.ErrUnauthorized, "signer is not a vault manager")
	}

	return nil
}

// requireNotPaused rejects the operation while the vault is paused.
func (m msgServer) requireNotPaused(ctx context.Context) error {
	paused, err := m.GetPaused(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch pause state")
	}
	if paused {
		return types.ErrVaultPaused
	}

	return nil
}

func (m msgServer) SetPrice(ctx context.Context, msg *types.MsgSetPrice) (*types.MsgSetPriceResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireOracleManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	applied, err := m.setFixedPrice(ctx, msg.Base, msg.Quote, msg.Price)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to set price for %s/%s", msg.Base, msg.Quote)
	}

	if applied {
		sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePriceUpdated,
				sdk.NewAttribute(types.AttributeKeyBase, msg.Base),
				sdk.NewAttribute(types.AttributeKeyQuote, msg.Quote),
				sdk.NewAttribute(types.AttributeKeyPrice, msg.Price.String()),
			),
		)
	}

	return &types.MsgSetPriceResponse{Applied: applied}, nil
}

func (m msgServer) SetPrices(ctx context.Context, msg *types.MsgSetPrices) (*types.MsgSetPricesResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireOracleManager(ctx, msg.Signer); err != nil {
		return nil, err
	}
	if len(msg.Bases) != len(msg.Quotes) || len(msg.Bases) != len(msg.Prices) {
		return nil, errors.Wrapf(types.ErrLengthMismatch, "%d bases, %d quotes, %d prices", len(msg.Bases), len(msg.Quotes), len(msg.Prices))
	}

	applied := make([]bool, len(msg.Bases))
	for i := range msg.Bases {
		ok, err := m.setFixedPrice(ctx, msg.Bases[i], msg.Quotes[i], msg.Prices[i])
		if err != nil {
			return nil, errors.Wrapf(err, "unable to set price for %s/%s", msg.Bases[i], msg.Quotes[i])
		}
		applied[i] = ok
	}

	return &types.MsgSetPricesResponse{Applied: applied}, nil
}

func (m msgServer) SchedulePriceUpdate(ctx context.Context, msg *types.MsgSchedulePriceUpdate) (*types.MsgSchedulePriceUpdateResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireOracleManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	vesting := time.Duration(msg.VestingSeconds) * time.Second
	applied, err := m.scheduleLinearPriceUpdate(ctx, msg.Base, msg.Quote, msg.TargetPrice, vesting)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to schedule price for %s/%s", msg.Base, msg.Quote)
	}

	if applied {
		sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePriceScheduled,
				sdk.NewAttribute(types.AttributeKeyBase, msg.Base),
				sdk.NewAttribute(types.AttributeKeyQuote, msg.Quote),
				sdk.NewAttribute(types.AttributeKeyTargetPrice, msg.TargetPrice.String()),
			),
		)
	}

	return &types.MsgSchedulePriceUpdateResponse{Applied: applied}, nil
}

func (m msgServer) SchedulePriceUpdates(ctx context.Context, msg *types.MsgSchedulePriceUpdates) (*types.MsgSchedulePriceUpdatesResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireOracleManager(ctx, msg.Signer); err != nil {
		return nil, err
	}
	if len(msg.Bases) != len(msg.Quotes) || len(msg.Bases) != len(msg.TargetPrices) {
		return nil, errors.Wrapf(types.ErrLengthMismatch, "%d bases, %d quotes, %d targets", len(msg.Bases), len(msg.Quotes), len(msg.TargetPrices))
	}

	vesting := time.Duration(msg.VestingSeconds) * time.Second
	applied := make([]bool, len(msg.Bases))
	for i := range msg.Bases {
		ok, err := m.scheduleLinearPriceUpdate(ctx, msg.Bases[i], msg.Quotes[i], msg.TargetPrices[i], vesting)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to schedule price for %s/%s", msg.Bases[i], msg.Quotes[i])
		}
		applied[i] = ok
	}

	return &types.MsgSchedulePriceUpdatesResponse{Applied: applied}, nil
}

func (m msgServer) AddAsset(ctx context.Context, msg *types.MsgAddAsset) (*types.MsgAddAssetResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireRateProvider(ctx, msg.Signer); err != nil {
		return nil, err
	}

	if err := m.addAsset(ctx, msg.Denom, msg.Pegged, msg.RateBase, msg.Decimals); err != nil {
		return nil, errors.Wrapf(err, "unable to add asset %s", msg.Denom)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetAdded,
			sdk.NewAttribute(types.AttributeKeyAsset, msg.Denom),
		),
	)

	return &types.MsgAddAssetResponse{}, nil
}

func (m msgServer) RemoveAsset(ctx context.Context, msg *types.MsgRemoveAsset) (*types.MsgRemoveAssetResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireRateProvider(ctx, msg.Signer); err != nil {
		return nil, err
	}

	if err := m.removeAsset(ctx, msg.Denom); err != nil {
		return nil, errors.Wrapf(err, "unable to remove asset %s", msg.Denom)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAssetRemoved,
			sdk.NewAttribute(types.AttributeKeyAsset, msg.Denom),
		),
	)

	return &types.MsgRemoveAssetResponse{}, nil
}

func (m msgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Amount.Amount.IsNil() || !msg.Amount.Amount.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}

	depositorBz, err := m.address.StringToBytes(msg.Signer)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid depositor address: %s", msg.Signer)
	}
	depositor := sdk.AccAddress(depositorBz)

	receiver := depositor
	if msg.Receiver != "" && msg.Receiver != msg.Signer {
		receiverBz, err := m.address.StringToBytes(msg.Receiver)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid receiver address: %s", msg.Receiver)
		}
		receiver = sdk.AccAddress(receiverBz)
	}

	if err := m.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	supported, err := m.IsSupported(ctx, msg.Amount.Denom)
	if err != nil {
		return nil, errors.Wrap(err, "unable to check asset support")
	}
	if !supported {
		return nil, errors.Wrapf(types.ErrAssetNotSupported, "denom %s", msg.Amount.Denom)
	}

	// Fees settle before the deposit so the entrant pays none of the
	// already-accrued amount.
	if _, err := m.SettleFees(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to settle fees")
	}

	baseValue, err := m.ConvertToUnderlying(ctx, msg.Amount.Denom, msg.Amount.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "unable to value deposit")
	}

	if err := m.checkDepositLimits(ctx, baseValue); err != nil {
		return nil, err
	}

	shares, err := m.convertToShares(ctx, baseValue)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert deposit to shares")
	}
	if !shares.IsPositive() {
		return nil, errors.Wrap(types.ErrEmptyDeposit, "deposit converts to zero shares")
	}

	if err := m.hooks.BeforeDeposit(ctx, depositor, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit hook rejected the deposit")
	}

	if err := m.bank.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, sdk.NewCoins(msg.Amount)); err != nil {
		return nil, errors.Wrap(err, "unable to transfer deposit into vault")
	}

	if err := m.mintShares(ctx, receiver, shares); err != nil {
		return nil, err
	}

	if err := m.hooks.AfterDeposit(ctx, depositor, msg.Amount, shares); err != nil {
		return nil, errors.Wrap(err, "unable to run post-deposit hook")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeySender, msg.Signer),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.Amount.Denom),
			sdk.NewAttribute(types.AttributeKeyAssets, msg.Amount.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
		),
	)

	return &types.MsgDepositResponse{Shares: shares}, nil
}

func (m msgServer) Mint(ctx context.Context, msg *types.MsgMint) (*types.MsgMintResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrInvalidAmount, "share amount must be positive")
	}

	depositorBz, err := m.address.StringToBytes(msg.Signer)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid depositor address: %s", msg.Signer)
	}
	depositor := sdk.AccAddress(depositorBz)

	receiver := depositor
	if msg.Receiver != "" && msg.Receiver != msg.Signer {
		receiverBz, err := m.address.StringToBytes(msg.Receiver)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid receiver address: %s", msg.Receiver)
		}
		receiver = sdk.AccAddress(receiverBz)
	}

	if err := m.requireNotPaused(ctx); err != nil {
		return nil, err
	}

	supported, err := m.IsSupported(ctx, msg.AssetDenom)
	if err != nil {
		return nil, errors.Wrap(err, "unable to check asset support")
	}
	if !supported {
		return nil, errors.Wrapf(types.ErrAssetNotSupported, "denom %s", msg.AssetDenom)
	}

	if _, err := m.SettleFees(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to settle fees")
	}

	baseCost, err := m.convertToAssetsCeil(ctx, msg.Shares)
	if err != nil {
		return nil, errors.Wrap(err, "unable to price requested shares")
	}

	if err := m.checkDepositLimits(ctx, baseCost); err != nil {
		return nil, err
	}

	assetCost, err := m.ConvertFromUnderlying(ctx, msg.AssetDenom, baseCost)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert cost to asset units")
	}
	if !assetCost.IsPositive() {
		return nil, errors.Wrap(types.ErrEmptyDeposit, "mint resolves to zero asset cost")
	}

	coin := sdk.NewCoin(msg.AssetDenom, assetCost)

	if err := m.hooks.BeforeDeposit(ctx, depositor, coin); err != nil {
		return nil, errors.Wrap(err, "deposit hook rejected the mint")
	}

	if err := m.bank.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, sdk.NewCoins(coin)); err != nil {
		return nil, errors.Wrap(err, "unable to transfer mint cost into vault")
	}

	if err := m.mintShares(ctx, receiver, msg.Shares); err != nil {
		return nil, err
	}

	if err := m.hooks.AfterDeposit(ctx, depositor, coin, msg.Shares); err != nil {
		return nil, errors.Wrap(err, "unable to run post-deposit hook")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDeposit,
			sdk.NewAttribute(types.AttributeKeySender, msg.Signer),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyAssets, assetCost.String()),
			sdk.NewAttribute(types.AttributeKeyShares, msg.Shares.String()),
		),
	)

	return &types.MsgMintResponse{Assets: assetCost}, nil
}

// checkDepositLimits enforces the minimum deposit and the global cap, both
// in base denom units.
func (m msgServer) checkDepositLimits(ctx context.Context, baseValue sdkmath.Int) error {
	params, err := m.GetParams(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch parameters")
	}

	if !params.MinDepositAmount.IsNil() && params.MinDepositAmount.IsPositive() && baseValue.LT(params.MinDepositAmount) {
		return errors.Wrapf(types.ErrInvalidAmount, "deposit below minimum of %s", params.MinDepositAmount)
	}

	if !params.DepositCap.IsNil() && params.DepositCap.IsPositive() {
		totalAssets, err := m.TotalAssets(ctx)
		if err != nil {
			return errors.Wrap(err, "unable to compute total assets")
		}
		if totalAssets.Add(baseValue).GT(params.DepositCap) {
			return errors.Wrapf(types.ErrInvalidAmount, "deposit exceeds cap of %s", params.DepositCap)
		}
	}

	return nil
}

// mintShares mints vault shares and delivers them to the receiver.
func (m msgServer) mintShares(ctx context.Context, receiver sdk.AccAddress, shares sdkmath.Int) error {
	config, err := m.GetConfig(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch vault configuration")
	}

	coins := sdk.NewCoins(sdk.NewCoin(config.ShareDenom, shares))
	if err := m.bank.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return errors.Wrap(err, "unable to mint shares")
	}
	if err := m.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, coins); err != nil {
		return errors.Wrap(err, "unable to deliver shares")
	}

	return nil
}
