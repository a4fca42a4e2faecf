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
	"bytes"
	"context"
	"errors"
	"time"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

// The redemption store is shared: records are keyed by (controller, vault,
// asset) so one instance of the module can serve several logical vaults.
// Reads are open; every mutation checks that the writer is the vault itself
// or one of its registered managers.

func (k *Keeper) assertQueueWriter(ctx context.Context, vault []byte, writer sdk.AccAddress) error {
	if bytes.Equal(vault, writer.Bytes()) {
		return nil
	}

	approved, err := k.IsManager(ctx, vault, writer)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to check manager registration")
	}
	if !approved {
		return sdkerrors.Wrap(types.ErrUnauthorized, "writer is not the vault or a registered manager")
	}

	return nil
}

// GetPendingRedeem returns the pending slot for (controller, vault, asset),
// zero-valued when absent.
func (k *Keeper) GetPendingRedeem(ctx context.Context, controller, vault []byte, asset string) (types.PendingRedeem, error) {
	pending, err := k.Pending.Get(ctx, collections.Join3(controller, vault, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.PendingRedeem{Shares: math.ZeroInt()}, nil
		}
		return types.PendingRedeem{}, err
	}

	return pending, nil
}

// AddPendingShares accumulates shares into the pending slot and stamps the
// request time.
func (k *Keeper) AddPendingShares(ctx context.Context, writer sdk.AccAddress, controller, vault []byte, asset string, shares math.Int, requestTime time.Time) error {
	if err := k.assertQueueWriter(ctx, vault, writer); err != nil {
		return err
	}
	if !shares.IsPositive() {
		return sdkerrors.Wrap(types.ErrInvalidAmount, "pending shares must be positive")
	}

	pending, err := k.GetPendingRedeem(ctx, controller, vault, asset)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to fetch pending redemption")
	}

	pending.Shares, err = pending.Shares.SafeAdd(shares)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to accumulate pending shares")
	}
	pending.RequestTime = requestTime

	return k.Pending.Set(ctx, collections.Join3(controller, vault, asset), pending)
}

// SubPendingShares removes shares from the pending slot, deleting the record
// when it empties so the request timestamp resets with the next request.
func (k *Keeper) SubPendingShares(ctx context.Context, writer sdk.AccAddress, controller, vault []byte, asset string, shares math.Int) error {
	if err := k.assertQueueWriter(ctx, vault, writer); err != nil {
		return err
	}

	pending, err := k.GetPendingRedeem(ctx, controller, vault, asset)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to fetch pending redemption")
	}
	if pending.Shares.LT(shares) {
		return sdkerrors.Wrapf(types.ErrNotEnoughPendingShares, "pending %s, requested %s", pending.Shares, shares)
	}

	pending.Shares = pending.Shares.Sub(shares)
	key := collections.Join3(controller, vault, asset)
	if !pending.Shares.IsPositive() {
		if err := k.Pending.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}

	return k.Pending.Set(ctx, key, pending)
}

// GetClaimableRedeem returns the claimable bucket for (controller, vault,
// asset), zero-valued when absent.
func (k *Keeper) GetClaimableRedeem(ctx context.Context, controller, vault []byte, asset string) (types.ClaimableRedeem, error) {
	claimable, err := k.Claimable.Get(ctx, collections.Join3(controller, vault, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.ClaimableRedeem{Assets: math.ZeroInt(), Shares: math.ZeroInt()}, nil
		}
		return types.ClaimableRedeem{}, err
	}

	return claimable, nil
}

// AddClaimable credits a fulfilled redemption to the controller's bucket.
func (k *Keeper) AddClaimable(ctx context.Context, writer sdk.AccAddress, controller, vault []byte, asset string, assets, shares math.Int) error {
	if err := k.assertQueueWriter(ctx, vault, writer); err != nil {
		return err
	}

	claimable, err := k.GetClaimableRedeem(ctx, controller, vault, asset)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to fetch claimable redemption")
	}

	claimable.Assets, err = claimable.Assets.SafeAdd(assets)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to accumulate claimable assets")
	}
	claimable.Shares, err = claimable.Shares.SafeAdd(shares)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to accumulate claimable shares")
	}

	return k.Claimable.Set(ctx, collections.Join3(controller, vault, asset), claimable)
}

// SetClaimable overwrites the claimable bucket, deleting it once both sides
// reach zero.
func (k *Keeper) SetClaimable(ctx context.Context, writer sdk.AccAddress, controller, vault []byte, asset string, claimable types.ClaimableRedeem) error {
	if err := k.assertQueueWriter(ctx, vault, writer); err != nil {
		return err
	}

	key := collections.Join3(controller, vault, asset)
	if claimable.IsEmpty() {
		if err := k.Claimable.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}

	return k.Claimable.Set(ctx, key, claimable)
}
