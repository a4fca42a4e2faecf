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
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

func (m msgServer) SetOperator(ctx context.Context, msg *types.MsgSetOperator) (*types.MsgSetOperatorResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	ownerBz, err := m.address.StringToBytes(msg.Signer)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid signer address: %s", msg.Signer)
	}
	operatorBz, err := m.address.StringToBytes(msg.Operator)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid operator address: %s", msg.Operator)
	}
	if msg.Signer == msg.Operator {
		return nil, errors.Wrap(types.ErrInvalidRequest, "cannot set self as operator")
	}

	if err := m.Keeper.SetOperator(ctx, ownerBz, operatorBz, msg.Approved); err != nil {
		return nil, errors.Wrap(err, "unable to store operator grant")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOperatorSet,
			sdk.NewAttribute(types.AttributeKeyOwner, msg.Signer),
			sdk.NewAttribute(types.AttributeKeyOperator, msg.Operator),
			sdk.NewAttribute(types.AttributeKeyApproved, boolString(msg.Approved)),
		),
	)

	return &types.MsgSetOperatorResponse{}, nil
}

func (m msgServer) RequestRedeem(ctx context.Context, msg *types.MsgRequestRedeem) (*types.MsgRequestRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrNothingToRedeem, "share amount must be positive")
	}

	ownerBz, err := m.address.StringToBytes(msg.Owner)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid owner address: %s", msg.Owner)
	}
	owner := sdk.AccAddress(ownerBz)

	controllerBz, err := m.address.StringToBytes(msg.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", msg.Controller)
	}

	if err := m.requireOwnerOrOperator(ctx, msg.Signer, owner); err != nil {
		return nil, err
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

	config, err := m.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault configuration")
	}

	balance := m.bank.GetBalance(ctx, owner, config.ShareDenom).Amount
	if balance.LT(msg.Shares) {
		return nil, errors.Wrapf(types.ErrInsufficientBalance, "balance %s, requested %s", balance, msg.Shares)
	}

	// Escrow the shares with the vault until fulfillment or cancellation.
	coins := sdk.NewCoins(sdk.NewCoin(config.ShareDenom, msg.Shares))
	if err := m.bank.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, coins); err != nil {
		return nil, errors.Wrap(err, "unable to escrow shares")
	}

	now := m.header.GetHeaderInfo(ctx).Time
	if err := m.AddPendingShares(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, msg.AssetDenom, msg.Shares, now); err != nil {
		return nil, errors.Wrap(err, "unable to record pending redemption")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRedeemRequested,
			sdk.NewAttribute(types.AttributeKeyOwner, msg.Owner),
			sdk.NewAttribute(types.AttributeKeyController, msg.Controller),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyShares, msg.Shares.String()),
			sdk.NewAttribute(types.AttributeKeyRequestTime, now.UTC().String()),
		),
	)

	return &types.MsgRequestRedeemResponse{RequestId: types.RedeemRequestID}, nil
}

func (m msgServer) FulfillRedeem(ctx context.Context, msg *types.MsgFulfillRedeem) (*types.MsgFulfillRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	assets, fee, err := m.fulfillOne(ctx, msg.Controller, msg.AssetDenom, msg.Shares)
	if err != nil {
		return nil, err
	}

	return &types.MsgFulfillRedeemResponse{Assets: assets, Fee: fee}, nil
}

func (m msgServer) FulfillMultipleRedeems(ctx context.Context, msg *types.MsgFulfillMultipleRedeems) (*types.MsgFulfillMultipleRedeemsResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireManager(ctx, msg.Signer); err != nil {
		return nil, err
	}
	if len(msg.Controllers) != len(msg.AssetDenoms) || len(msg.Controllers) != len(msg.Shares) {
		return nil, errors.Wrapf(types.ErrLengthMismatch, "%d controllers, %d assets, %d shares", len(msg.Controllers), len(msg.AssetDenoms), len(msg.Shares))
	}

	total := sdkmath.ZeroInt()
	for i := range msg.Controllers {
		assets, _, err := m.fulfillOne(ctx, msg.Controllers[i], msg.AssetDenoms[i], msg.Shares[i])
		if err != nil {
			return nil, errors.Wrapf(err, "unable to fulfill redemption for %s", msg.Controllers[i])
		}
		total = total.Add(assets)
	}

	return &types.MsgFulfillMultipleRedeemsResponse{TotalAssets: total}, nil
}

// fulfillOne settles one pending redemption: fees accrue, the quoted assets
// are computed at the current rate, the withdrawal fee is carved out, the
// escrowed shares are burned, and the net amount is credited claimable.
func (m msgServer) fulfillOne(ctx context.Context, controller, assetDenom string, shares sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	zero := sdkmath.ZeroInt()

	if shares.IsNil() || !shares.IsPositive() {
		return zero, zero, errors.Wrap(types.ErrInvalidRedeemCall, "share amount must be positive")
	}

	controllerBz, err := m.address.StringToBytes(controller)
	if err != nil {
		return zero, zero, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", controller)
	}

	pending, err := m.GetPendingRedeem(ctx, controllerBz, types.ModuleAddress, assetDenom)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to fetch pending redemption")
	}
	if pending.IsEmpty() {
		return zero, zero, errors.Wrapf(types.ErrNothingToRedeem, "controller %s, asset %s", controller, assetDenom)
	}
	if pending.Shares.LT(shares) {
		return zero, zero, errors.Wrapf(types.ErrNotEnoughPendingShares, "pending %s, requested %s", pending.Shares, shares)
	}

	if _, err := m.SettleFees(ctx); err != nil {
		return zero, zero, errors.Wrap(err, "unable to settle fees")
	}

	baseValue, err := m.convertToAssets(ctx, shares)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to value shares")
	}
	assets, err := m.ConvertFromUnderlying(ctx, assetDenom, baseValue)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to convert to asset units")
	}
	if !assets.IsPositive() {
		return zero, zero, errors.Wrap(types.ErrInvalidRedeemCall, "fulfillment resolves to zero assets")
	}

	if err := m.hooks.BeforeFulfillRedeem(ctx, controllerBz, assetDenom, shares); err != nil {
		return zero, zero, errors.Wrap(err, "fulfillment hook rejected the redemption")
	}

	fees, err := m.GetFees(ctx)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to fetch fee schedule")
	}
	fee := zero
	if !fees.WithdrawalRate.IsNil() && fees.WithdrawalRate.IsPositive() {
		fee = fees.WithdrawalRate.MulInt(assets).TruncateInt()
	}
	net := assets.Sub(fee)
	if !net.IsPositive() {
		return zero, zero, errors.Wrap(types.ErrInvalidRedeemCall, "fulfillment resolves to zero after fees")
	}

	credited, err := m.hooks.AfterFulfillRedeem(ctx, controllerBz, assetDenom, shares, net)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to run post-fulfillment hook")
	}

	if err := m.SubPendingShares(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, assetDenom, shares); err != nil {
		return zero, zero, errors.Wrap(err, "unable to consume pending shares")
	}

	config, err := m.GetConfig(ctx)
	if err != nil {
		return zero, zero, errors.Wrap(err, "unable to fetch vault configuration")
	}

	// The escrowed shares leave the supply for good.
	burn := sdk.NewCoins(sdk.NewCoin(config.ShareDenom, shares))
	if err := m.bank.BurnCoins(ctx, types.ModuleName, burn); err != nil {
		return zero, zero, errors.Wrap(err, "unable to burn escrowed shares")
	}

	if err := m.AddClaimable(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, assetDenom, credited, shares); err != nil {
		return zero, zero, errors.Wrap(err, "unable to credit claimable redemption")
	}

	if fee.IsPositive() {
		recipient, err := m.address.StringToBytes(config.FeeRecipient)
		if err != nil {
			return zero, zero, errors.Wrapf(types.ErrInvalidRequest, "invalid fee recipient: %s", config.FeeRecipient)
		}
		feeCoins := sdk.NewCoins(sdk.NewCoin(assetDenom, fee))
		if err := m.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, feeCoins); err != nil {
			return zero, zero, errors.Wrap(err, "unable to pay withdrawal fee")
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRedeemFulfilled,
			sdk.NewAttribute(types.AttributeKeyController, controller),
			sdk.NewAttribute(types.AttributeKeyAsset, assetDenom),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyAssets, credited.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
		),
	)

	return credited, fee, nil
}

func (m msgServer) CancelRedeemRequest(ctx context.Context, msg *types.MsgCancelRedeemRequest) (*types.MsgCancelRedeemRequestResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}

	controllerBz, err := m.address.StringToBytes(msg.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", msg.Controller)
	}
	controller := sdk.AccAddress(controllerBz)

	if err := m.requireOwnerOrOperator(ctx, msg.Signer, controller); err != nil {
		return nil, err
	}

	receiver := controller
	if msg.Receiver != "" && msg.Receiver != msg.Controller {
		receiverBz, err := m.address.StringToBytes(msg.Receiver)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid receiver address: %s", msg.Receiver)
		}
		receiver = sdk.AccAddress(receiverBz)
	}

	pending, err := m.GetPendingRedeem(ctx, controllerBz, types.ModuleAddress, msg.AssetDenom)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch pending redemption")
	}
	if pending.IsEmpty() {
		return nil, errors.Wrapf(types.ErrNothingToRedeem, "controller %s, asset %s", msg.Controller, msg.AssetDenom)
	}

	if err := m.SubPendingShares(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, msg.AssetDenom, pending.Shares); err != nil {
		return nil, errors.Wrap(err, "unable to clear pending redemption")
	}

	config, err := m.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault configuration")
	}

	coins := sdk.NewCoins(sdk.NewCoin(config.ShareDenom, pending.Shares))
	if err := m.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, coins); err != nil {
		return nil, errors.Wrap(err, "unable to return escrowed shares")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRedeemCancelled,
			sdk.NewAttribute(types.AttributeKeyController, msg.Controller),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyShares, pending.Shares.String()),
		),
	)

	return &types.MsgCancelRedeemRequestResponse{Shares: pending.Shares}, nil
}

func (m msgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Assets.IsNil() || !msg.Assets.IsPositive() {
		return nil, errors.Wrap(types.ErrNothingToWithdraw, "asset amount must be positive")
	}

	controllerBz, err := m.address.StringToBytes(msg.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", msg.Controller)
	}
	controller := sdk.AccAddress(controllerBz)

	if err := m.requireOwnerOrOperator(ctx, msg.Signer, controller); err != nil {
		return nil, err
	}

	receiver, err := m.resolveReceiver(controller, msg.Receiver)
	if err != nil {
		return nil, err
	}

	// Claims stay open while the vault is paused.
	claimable, err := m.GetClaimableRedeem(ctx, controllerBz, types.ModuleAddress, msg.AssetDenom)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch claimable redemption")
	}
	if claimable.IsEmpty() {
		return nil, errors.Wrapf(types.ErrNothingToWithdraw, "controller %s, asset %s", msg.Controller, msg.AssetDenom)
	}
	if claimable.Assets.LT(msg.Assets) {
		return nil, errors.Wrapf(types.ErrInsufficientClaimable, "claimable %s, requested %s", claimable.Assets, msg.Assets)
	}

	// Shares consumed round up so the bucket can never pay out more value
	// than was settled into it.
	shares := mulDivCeil(msg.Assets, claimable.Shares, claimable.Assets)
	shares = sdkmath.MinInt(shares, claimable.Shares)

	claimable.Assets = claimable.Assets.Sub(msg.Assets)
	claimable.Shares = claimable.Shares.Sub(shares)
	if err := m.SetClaimable(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, msg.AssetDenom, claimable); err != nil {
		return nil, errors.Wrap(err, "unable to update claimable redemption")
	}

	coins := sdk.NewCoins(sdk.NewCoin(msg.AssetDenom, msg.Assets))
	if err := m.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, coins); err != nil {
		return nil, errors.Wrap(err, "unable to pay out assets")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyController, msg.Controller),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyAssets, msg.Assets.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
		),
	)

	return &types.MsgWithdrawResponse{Shares: shares}, nil
}

func (m msgServer) Redeem(ctx context.Context, msg *types.MsgRedeem) (*types.MsgRedeemResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, errors.Wrap(types.ErrNothingToWithdraw, "share amount must be positive")
	}

	controllerBz, err := m.address.StringToBytes(msg.Controller)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid controller address: %s", msg.Controller)
	}
	controller := sdk.AccAddress(controllerBz)

	if err := m.requireOwnerOrOperator(ctx, msg.Signer, controller); err != nil {
		return nil, err
	}

	receiver, err := m.resolveReceiver(controller, msg.Receiver)
	if err != nil {
		return nil, err
	}

	claimable, err := m.GetClaimableRedeem(ctx, controllerBz, types.ModuleAddress, msg.AssetDenom)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch claimable redemption")
	}
	if claimable.IsEmpty() {
		return nil, errors.Wrapf(types.ErrNothingToWithdraw, "controller %s, asset %s", msg.Controller, msg.AssetDenom)
	}
	if claimable.Shares.LT(msg.Shares) {
		return nil, errors.Wrapf(types.ErrInsufficientClaimable, "claimable shares %s, requested %s", claimable.Shares, msg.Shares)
	}

	// Payout floors while the deduction ceils, so draining the last share
	// leaves the bucket at exactly zero on both sides.
	payout := mulDivFloor(msg.Shares, claimable.Assets, claimable.Shares)
	deducted := mulDivCeil(msg.Shares, claimable.Assets, claimable.Shares)
	deducted = sdkmath.MinInt(deducted, claimable.Assets)

	claimable.Assets = claimable.Assets.Sub(deducted)
	claimable.Shares = claimable.Shares.Sub(msg.Shares)
	if err := m.SetClaimable(ctx, types.ModuleAddress, controllerBz, types.ModuleAddress, msg.AssetDenom, claimable); err != nil {
		return nil, errors.Wrap(err, "unable to update claimable redemption")
	}

	if payout.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(msg.AssetDenom, payout))
		if err := m.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiver, coins); err != nil {
			return nil, errors.Wrap(err, "unable to pay out assets")
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyController, msg.Controller),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver.String()),
			sdk.NewAttribute(types.AttributeKeyAsset, msg.AssetDenom),
			sdk.NewAttribute(types.AttributeKeyAssets, payout.String()),
			sdk.NewAttribute(types.AttributeKeyShares, msg.Shares.String()),
		),
	)

	return &types.MsgRedeemResponse{Assets: payout}, nil
}

// requireOwnerOrOperator checks that the signer is the owner or one of the
// owner's approved operators.
func (m msgServer) requireOwnerOrOperator(ctx context.Context, signer string, owner sdk.AccAddress) error {
	signerBz, err := m.address.StringToBytes(signer)
	if err != nil {
		return errors.Wrapf(types.ErrInvalidRequest, "invalid signer address: %s", signer)
	}
	if owner.Equals(sdk.AccAddress(signerBz)) {
		return nil
	}

	approved, err := m.IsOperator(ctx, owner, signerBz)
	if err != nil {
		return errors.Wrap(err, "unable to check operator grant")
	}
	if !approved {
		return errors.Wrap(types.ErrUnauthorized, "signer is not the owner or an approved operator")
	}

	return nil
}

// resolveReceiver returns the fallback when no explicit receiver is given.
func (m msgServer) resolveReceiver(fallback sdk.AccAddress, receiver string) (sdk.AccAddress, error) {
	if receiver == "" {
		return fallback, nil
	}

	bz, err := m.address.StringToBytes(receiver)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid receiver address: %s", receiver)
	}

	return sdk.AccAddress(bz), nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
