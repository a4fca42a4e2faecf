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

package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/core/header"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ultravault.dev/types"
	"ultravault.dev/utils"
)

func TestSetPriceAuthorization(t *testing.T) {
	k, server, _, ctx, env := setupTest(t)
	bob := utils.TestAccount()

	// ACT: Random accounts cannot write prices
	_, err := server.SetPrice(ctx, &types.MsgSetPrice{
		Signer: bob.Address,
		Base:   "weth",
		Quote:  "uusdc",
		Price:  math.LegacyNewDec(2000),
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ACT: The oracle manager can
	_, err = server.SetPrice(ctx, &types.MsgSetPrice{
		Signer: env.oracle.Address,
		Base:   "weth",
		Quote:  "uusdc",
		Price:  math.LegacyNewDec(2000),
	})
	require.NoError(t, err)

	price, err := k.GetCurrentPrice(ctx, "weth", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyNewDec(2000), price)

	// ACT: Negative prices are rejected
	_, err = server.SetPrice(ctx, &types.MsgSetPrice{
		Signer: env.oracle.Address,
		Base:   "weth",
		Quote:  "uusdc",
		Price:  math.LegacyNewDec(-1),
	})
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestSetPricesBatch(t *testing.T) {
	k, server, _, ctx, env := setupTest(t)

	// ACT: One update for two pairs
	_, err := server.SetPrices(ctx, &types.MsgSetPrices{
		Signer: env.oracle.Address,
		Bases:  []string{"weth", "wbtc"},
		Quotes: []string{"uusdc", "uusdc"},
		Prices: []math.LegacyDec{math.LegacyNewDec(2000), math.LegacyNewDec(60000)},
	})
	require.NoError(t, err)

	for pair, expected := range map[string]math.LegacyDec{
		"weth": math.LegacyNewDec(2000),
		"wbtc": math.LegacyNewDec(60000),
	} {
		price, err := k.GetCurrentPrice(ctx, pair, "uusdc")
		require.NoError(t, err)
		assert.Equal(t, expected, price)
	}

	// ACT: Mismatched slice lengths are rejected
	_, err = server.SetPrices(ctx, &types.MsgSetPrices{
		Signer: env.oracle.Address,
		Bases:  []string{"weth"},
		Quotes: []string{"uusdc", "uusdc"},
		Prices: []math.LegacyDec{math.LegacyNewDec(2000)},
	})
	require.ErrorIs(t, err, types.ErrLengthMismatch)
}

func TestSchedulePriceUpdateVesting(t *testing.T) {
	k, server, _, ctx, env := setupTest(t)

	// ACT: Ramp the share price from 1.0 to 2.0 over 24 hours
	_, err := server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "uvshare",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyNewDec(2),
		VestingSeconds: 24 * 60 * 60,
	})
	require.NoError(t, err)

	// ASSERT: The price interpolates linearly over the window
	price, err := k.GetCurrentPrice(ctx, "uvshare", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyOneDec(), price)

	ctx = ctx.WithHeaderInfo(header.Info{Time: genesisTime.Add(12 * time.Hour)})
	price, err = k.GetCurrentPrice(ctx, "uvshare", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyMustNewDecFromStr("1.5"), price)

	ctx = ctx.WithHeaderInfo(header.Info{Time: genesisTime.Add(24 * time.Hour)})
	price, err = k.GetCurrentPrice(ctx, "uvshare", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyNewDec(2), price)

	// ASSERT: Past the window the price holds at target
	ctx = ctx.WithHeaderInfo(header.Info{Time: genesisTime.Add(48 * time.Hour)})
	price, err = k.GetCurrentPrice(ctx, "uvshare", "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.LegacyNewDec(2), price)
}

func TestSchedulePriceUpdateRestartsFromCurrent(t *testing.T) {
	k, server, _, ctx, env := setupTest(t)

	// ARRANGE: A ramp to 2.0, half vested
	_, err := server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "uvshare",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyNewDec(2),
		VestingSeconds: 24 * 60 * 60,
	})
	require.NoError(t, err)
	ctx = ctx.WithHeaderInfo(header.Info{Time: genesisTime.Add(12 * time.Hour)})

	// ACT: Schedule a new ramp mid-flight
	_, err = server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "uvshare",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyNewDec(1),
		VestingSeconds: 24 * 60 * 60,
	})
	require.NoError(t, err)

	// ASSERT: The new ramp starts at the interpolated 1.5, not the old anchor
	stored, found, err := k.GetPrice(ctx, "uvshare", "uusdc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, math.LegacyMustNewDecFromStr("1.5"), stored.Price)
	assert.Equal(t, math.LegacyNewDec(1), stored.TargetPrice)
}

func TestSchedulePriceUpdateBounds(t *testing.T) {
	_, server, _, ctx, env := setupTest(t)

	// ACT: Vesting shorter than the minimum period
	_, err := server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "uvshare",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyNewDec(2),
		VestingSeconds: 60 * 60,
	})
	require.ErrorIs(t, err, types.ErrInvalidVestingTime)

	// ACT: A ramp cannot start from an unknown pair
	_, err = server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "weth",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyNewDec(2000),
		VestingSeconds: 24 * 60 * 60,
	})
	require.ErrorIs(t, err, types.ErrZeroVestingStartPrice)

	// ACT: Target must be positive
	_, err = server.SchedulePriceUpdate(ctx, &types.MsgSchedulePriceUpdate{
		Signer:         env.oracle.Address,
		Base:           "uvshare",
		Quote:          "uusdc",
		TargetPrice:    math.LegacyZeroDec(),
		VestingSeconds: 24 * 60 * 60,
	})
	require.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestGetQuoteRescalesDecimals(t *testing.T) {
	k, server, _, ctx, env := setupTest(t)

	// ARRANGE: An 18-decimal asset priced at 2000 against the 6-decimal base
	_, err := server.AddAsset(ctx, &types.MsgAddAsset{
		Signer:   env.rateProvider.Address,
		Denom:    "weth",
		RateBase: "weth",
		Decimals: 18,
	})
	require.NoError(t, err)
	_, err = server.SetPrice(ctx, &types.MsgSetPrice{
		Signer: env.oracle.Address,
		Base:   "weth",
		Quote:  "uusdc",
		Price:  math.LegacyNewDec(2000),
	})
	require.NoError(t, err)

	// ACT: Quote half a token
	amount, _ := math.NewIntFromString("500000000000000000")
	quote, err := k.GetQuote(ctx, amount, "weth", "uusdc")

	// ASSERT: 0.5 * 2000 = 1000 USDC at 6 decimals
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(1000*ONE), quote)

	// ACT: Unknown pairs cannot be quoted
	_, err = k.GetQuote(ctx, math.NewInt(ONE), "wbtc", "uusdc")
	require.ErrorIs(t, err, types.ErrNoPriceData)

	// ACT: Zero amounts short-circuit without touching the oracle
	quote, err = k.GetQuote(ctx, math.ZeroInt(), "wbtc", "uusdc")
	require.NoError(t, err)
	assert.True(t, quote.IsZero())
}
