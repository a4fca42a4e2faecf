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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

// GetPaused returns the pause flag, defaulting to false when unset.
func (k *Keeper) GetPaused(ctx context.Context) (bool, error) {
	paused, err := k.Paused.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return paused, nil
}

// SetPaused persists the pause flag.
func (k *Keeper) SetPaused(ctx context.Context, paused bool) error {
	return k.Paused.Set(ctx, paused)
}

// GetParams returns the stored parameters, or the defaults when unset.
func (k *Keeper) GetParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, err
	}

	return params, nil
}

// GetConfig returns the vault configuration. A zero-value configuration is
// returned when the vault has not been initialized.
func (k *Keeper) GetConfig(ctx context.Context) (types.VaultConfig, error) {
	config, err := k.Config.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.VaultConfig{}, nil
		}
		return types.VaultConfig{}, err
	}

	return config, nil
}

// GetFees returns the fee schedule. Missing state resolves to the zero
// schedule so accrual math stays total.
func (k *Keeper) GetFees(ctx context.Context) (types.Fees, error) {
	fees, err := k.Fees.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Fees{}, nil
		}
		return types.Fees{}, err
	}

	return fees, nil
}

// GetAsset fetches a registered asset. The boolean flag indicates existence.
func (k *Keeper) GetAsset(ctx context.Context, denom string) (types.AssetData, bool, error) {
	asset, err := k.Assets.Get(ctx, denom)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.AssetData{}, false, nil
		}
		return types.AssetData{}, false, err
	}

	return asset, true, nil
}

// GetGuardConfig returns the guard limits, or the permissive defaults when
// unset.
func (k *Keeper) GetGuardConfig(ctx context.Context) (types.GuardConfig, error) {
	config, err := k.GuardConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultGuardConfig(), nil
		}
		return types.GuardConfig{}, err
	}

	return config, nil
}

// IsOperator reports whether operator has been approved by owner.
func (k *Keeper) IsOperator(ctx context.Context, owner, operator sdk.AccAddress) (bool, error) {
	approved, err := k.Operators.Get(ctx, collections.Join(owner.Bytes(), operator.Bytes()))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return approved, nil
}

// SetOperator stores or clears an operator grant, deleting cleared entries to
// keep the store compact.
func (k *Keeper) SetOperator(ctx context.Context, owner, operator sdk.AccAddress, approved bool) error {
	key := collections.Join(owner.Bytes(), operator.Bytes())
	if !approved {
		if err := k.Operators.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}

	return k.Operators.Set(ctx, key, true)
}

// IsManager reports whether manager is registered for the given vault key.
func (k *Keeper) IsManager(ctx context.Context, vault []byte, manager sdk.AccAddress) (bool, error) {
	approved, err := k.Managers.Get(ctx, collections.Join(vault, manager.Bytes()))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return approved, nil
}

// SetManager stores or clears a manager registration for the given vault key.
func (k *Keeper) SetManager(ctx context.Context, vault []byte, manager sdk.AccAddress, approved bool) error {
	key := collections.Join(vault, manager.Bytes())
	if !approved {
		if err := k.Managers.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}

	return k.Managers.Set(ctx, key, true)
}

// GetProposal fetches the pending rotation proposal for a kind. The boolean
// flag indicates existence.
func (k *Keeper) GetProposal(ctx context.Context, kind string) (types.AddressUpdateProposal, bool, error) {
	proposal, err := k.Proposals.Get(ctx, kind)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.AddressUpdateProposal{}, false, nil
		}
		return types.AddressUpdateProposal{}, false, err
	}

	return proposal, true, nil
}

// NextGuardTripID increments and returns the next trip record identifier.
func (k *Keeper) NextGuardTripID(ctx context.Context) (uint64, error) {
	next, err := k.GuardTripNextID.Get(ctx)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return 0, err
		}

		next = 1
	} else {
		next++
	}

	if err := k.GuardTripNextID.Set(ctx, next); err != nil {
		return 0, err
	}

	return next, nil
}

// GetGuardTrips returns every recorded guard trip in insertion order.
func (k *Keeper) GetGuardTrips(ctx context.Context) ([]types.GuardTrip, error) {
	var trips []types.GuardTrip

	err := k.GuardTrips.Walk(ctx, nil, func(_ uint64, trip types.GuardTrip) (bool, error) {
		trips = append(trips, trip)
		return false, nil
	})

	return trips, err
}
