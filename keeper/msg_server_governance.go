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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

func (m msgServer) SetFees(ctx context.Context, msg *types.MsgSetFees) (*types.MsgSetFeesResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}

	// Accrued amounts settle under the outgoing rates before they change.
	if _, err := m.SettleFees(ctx); err != nil {
		return nil, errors.Wrap(err, "unable to settle fees")
	}

	fees, err := m.GetFees(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch fee schedule")
	}
	fees.PerformanceRate = msg.PerformanceRate
	fees.ManagementRate = msg.ManagementRate
	fees.WithdrawalRate = msg.WithdrawalRate
	if err := fees.Validate(); err != nil {
		return nil, err
	}

	// Any sub-unit remainder the settle left behind is dropped here; the
	// incoming rates start a fresh accrual window.
	fees.LastUpdate = m.header.GetHeaderInfo(ctx).Time

	if err := m.Fees.Set(ctx, fees); err != nil {
		return nil, errors.Wrap(err, "unable to store fee schedule")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesUpdated,
			sdk.NewAttribute("performance_rate", msg.PerformanceRate.String()),
			sdk.NewAttribute("management_rate", msg.ManagementRate.String()),
			sdk.NewAttribute("withdrawal_rate", msg.WithdrawalRate.String()),
		),
	)

	return &types.MsgSetFeesResponse{}, nil
}

func (m msgServer) CollectFees(ctx context.Context, msg *types.MsgCollectFees) (*types.MsgCollectFeesResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	shares, err := m.SettleFees(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to settle fees")
	}

	return &types.MsgCollectFeesResponse{Shares: shares}, nil
}

func (m msgServer) Pause(ctx context.Context, msg *types.MsgPause) (*types.MsgPauseResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	paused, err := m.GetPaused(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch pause state")
	}
	if paused {
		return nil, errors.Wrap(types.ErrInvalidRequest, "vault is already paused")
	}

	if err := m.SetPaused(ctx, true); err != nil {
		return nil, errors.Wrap(err, "unable to pause vault")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePaused,
			sdk.NewAttribute(types.AttributeKeySender, msg.Signer),
		),
	)

	return &types.MsgPauseResponse{}, nil
}

func (m msgServer) Unpause(ctx context.Context, msg *types.MsgUnpause) (*types.MsgUnpauseResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireManager(ctx, msg.Signer); err != nil {
		return nil, err
	}

	paused, err := m.GetPaused(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch pause state")
	}
	if !paused {
		return nil, errors.Wrap(types.ErrInvalidRequest, "vault is not paused")
	}

	if err := m.SetPaused(ctx, false); err != nil {
		return nil, errors.Wrap(err, "unable to unpause vault")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUnpaused,
			sdk.NewAttribute(types.AttributeKeySender, msg.Signer),
		),
	)

	return &types.MsgUnpauseResponse{}, nil
}

func (m msgServer) SetManager(ctx context.Context, msg *types.MsgSetManager) (*types.MsgSetManagerResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}

	managerBz, err := m.address.StringToBytes(msg.Manager)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid manager address: %s", msg.Manager)
	}

	if err := m.Keeper.SetManager(ctx, types.ModuleAddress, managerBz, msg.Approved); err != nil {
		return nil, errors.Wrap(err, "unable to store manager registration")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeManagerSet,
			sdk.NewAttribute(types.AttributeKeyManager, msg.Manager),
			sdk.NewAttribute(types.AttributeKeyApproved, boolString(msg.Approved)),
		),
	)

	return &types.MsgSetManagerResponse{}, nil
}

func (m msgServer) SetGuardConfig(ctx context.Context, msg *types.MsgSetGuardConfig) (*types.MsgSetGuardConfigResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}

	config := types.GuardConfig{
		MaxPriceJump:  msg.MaxPriceJump,
		MaxDrawdown:   msg.MaxDrawdown,
		ApplyAndPause: msg.ApplyAndPause,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := m.GuardConfig.Set(ctx, config); err != nil {
		return nil, errors.Wrap(err, "unable to store guard configuration")
	}

	return &types.MsgSetGuardConfigResponse{}, nil
}

func (m msgServer) SetParams(ctx context.Context, msg *types.MsgSetParams) (*types.MsgSetParamsResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}

	params := msg.Params
	if params.MinVestingPeriod < 0 || params.MaxVestingPeriod < params.MinVestingPeriod {
		return nil, errors.Wrap(types.ErrInvalidRequest, "vesting bounds are inverted")
	}
	if params.AcceptDelay < 0 || params.AcceptWindow < params.AcceptDelay {
		return nil, errors.Wrap(types.ErrInvalidRequest, "acceptance window closes before it opens")
	}
	if params.DepositCap.IsNil() || params.MinDepositAmount.IsNil() {
		return nil, errors.Wrap(types.ErrInvalidRequest, "deposit limits cannot be nil")
	}

	if err := m.Params.Set(ctx, params); err != nil {
		return nil, errors.Wrap(err, "unable to store parameters")
	}

	return &types.MsgSetParamsResponse{}, nil
}

func (m msgServer) ProposeAddress(ctx context.Context, msg *types.MsgProposeAddress) (*types.MsgProposeAddressResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}
	if !types.ValidProposalKind(msg.Kind) {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "unknown proposal kind %s", msg.Kind)
	}
	if _, err := m.address.StringToBytes(msg.Address); err != nil {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "invalid proposed address: %s", msg.Address)
	}

	// A newer proposal replaces any pending one and restarts its clock.
	now := m.header.GetHeaderInfo(ctx).Time
	proposal := types.AddressUpdateProposal{
		Address:    msg.Address,
		ProposedAt: now,
	}
	if err := m.Proposals.Set(ctx, msg.Kind, proposal); err != nil {
		return nil, errors.Wrap(err, "unable to store proposal")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddressProposed,
			sdk.NewAttribute(types.AttributeKeyKind, msg.Kind),
			sdk.NewAttribute(types.AttributeKeyAddress, msg.Address),
		),
	)

	return &types.MsgProposeAddressResponse{}, nil
}

func (m msgServer) AcceptProposedAddress(ctx context.Context, msg *types.MsgAcceptProposedAddress) (*types.MsgAcceptProposedAddressResponse, error) {
	if msg == nil {
		return nil, errors.Wrap(types.ErrInvalidRequest, "message cannot be nil")
	}
	if err := m.requireAuthority(msg.Signer); err != nil {
		return nil, err
	}
	if !types.ValidProposalKind(msg.Kind) {
		return nil, errors.Wrapf(types.ErrInvalidRequest, "unknown proposal kind %s", msg.Kind)
	}

	proposal, found, err := m.GetProposal(ctx, msg.Kind)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch proposal")
	}
	if !found {
		return nil, errors.Wrapf(types.ErrProposalNotFound, "kind %s", msg.Kind)
	}

	params, err := m.GetParams(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch parameters")
	}

	now := m.header.GetHeaderInfo(ctx).Time
	opens := proposal.ProposedAt.Add(time.Duration(params.AcceptDelay) * time.Second)
	closes := proposal.ProposedAt.Add(time.Duration(params.AcceptWindow) * time.Second)
	if now.Before(opens) {
		return nil, errors.Wrapf(types.ErrProposalTooEarly, "acceptance opens at %s", opens.UTC())
	}
	if now.After(closes) {
		return nil, errors.Wrapf(types.ErrProposalExpired, "acceptance closed at %s", closes.UTC())
	}

	config, err := m.GetConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch vault configuration")
	}
	switch msg.Kind {
	case types.ProposalKindOracleManager:
		config.OracleManager = proposal.Address
	case types.ProposalKindRateProvider:
		config.RateProvider = proposal.Address
	case types.ProposalKindCustodian:
		config.Custodian = proposal.Address
	}
	if err := m.Config.Set(ctx, config); err != nil {
		return nil, errors.Wrap(err, "unable to store vault configuration")
	}

	if err := m.Proposals.Remove(ctx, msg.Kind); err != nil {
		return nil, errors.Wrap(err, "unable to clear proposal")
	}

	// Rotations always land the vault paused so the new integration can be
	// verified before flows resume.
	if err := m.SetPaused(ctx, true); err != nil {
		return nil, errors.Wrap(err, "unable to pause vault")
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddressAccepted,
			sdk.NewAttribute(types.AttributeKeyKind, msg.Kind),
			sdk.NewAttribute(types.AttributeKeyAddress, proposal.Address),
		),
	)

	return &types.MsgAcceptProposedAddressResponse{Address: proposal.Address}, nil
}
