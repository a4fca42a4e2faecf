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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"ultravault.dev/types"
)

// checkPriceUpdate validates a proposed price against the guard limits and
// maintains the guard bookkeeping. A violating update pauses the vault and
// records a trip; unless ApplyAndPause is configured the update is also
// dropped. The drop cannot surface as an error: a failed handler rolls back
// every write, which would discard the pause and the trip along with the
// price. The boolean reports whether the update may be applied. Clean
// updates ratchet the per-pair high-water mark.
func (k *Keeper) checkPriceUpdate(ctx context.Context, base, quote string, proposed math.LegacyDec) (bool, error) {
	config, err := k.GetGuardConfig(ctx)
	if err != nil {
		return false, sdkerrors.Wrap(err, "unable to fetch guard configuration")
	}

	last, err := k.GetCurrentPrice(ctx, base, quote)
	if err != nil {
		return false, sdkerrors.Wrap(err, "unable to resolve last price")
	}

	mark, err := k.getGuardMark(ctx, base, quote)
	if err != nil {
		return false, sdkerrors.Wrap(err, "unable to fetch guard mark")
	}

	reason := ""
	if last.IsPositive() {
		jump := proposed.Sub(last).Abs().Quo(last)
		if jump.GT(config.MaxPriceJump) {
			reason = types.GuardReasonPriceJump
		}
	}
	if reason == "" && mark.IsPositive() && proposed.LT(mark) {
		drawdown := mark.Sub(proposed).Quo(mark)
		if drawdown.GT(config.MaxDrawdown) {
			reason = types.GuardReasonDrawdown
		}
	}

	if reason != "" {
		if err := k.tripGuard(ctx, base, quote, last, proposed, reason); err != nil {
			return false, err
		}
		if !config.ApplyAndPause {
			return false, nil
		}
		// The update proceeds; the pause gives operators room to review.
	}

	if proposed.GT(mark) {
		if err := k.GuardMarks.Set(ctx, collections.Join(base, quote), proposed); err != nil {
			return false, sdkerrors.Wrap(err, "unable to ratchet guard mark")
		}
	}

	return true, nil
}

// tripGuard pauses the vault and records the violation for later review.
func (k *Keeper) tripGuard(ctx context.Context, base, quote string, last, attempted math.LegacyDec, reason string) error {
	if err := k.SetPaused(ctx, true); err != nil {
		return sdkerrors.Wrap(err, "unable to pause vault")
	}

	id, err := k.NextGuardTripID(ctx)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to allocate trip id")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	trip := types.GuardTrip{
		Base:           base,
		Quote:          quote,
		LastPrice:      last,
		AttemptedPrice: attempted,
		Reason:         reason,
		Time:           now,
	}
	if err := k.GuardTrips.Set(ctx, id, trip); err != nil {
		return sdkerrors.Wrap(err, "unable to record guard trip")
	}

	k.logger.Warn("price safety guard tripped",
		"base", base,
		"quote", quote,
		"last_price", last.String(),
		"attempted_price", attempted.String(),
		"reason", reason,
	)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeGuardTripped,
			sdk.NewAttribute(types.AttributeKeyBase, base),
			sdk.NewAttribute(types.AttributeKeyQuote, quote),
			sdk.NewAttribute(types.AttributeKeyPrice, attempted.String()),
			sdk.NewAttribute(types.AttributeKeyReason, reason),
		),
	)

	return nil
}

func (k *Keeper) getGuardMark(ctx context.Context, base, quote string) (math.LegacyDec, error) {
	mark, err := k.GuardMarks.Get(ctx, collections.Join(base, quote))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.LegacyZeroDec(), nil
		}
		return math.LegacyZeroDec(), err
	}

	return mark, nil
}
