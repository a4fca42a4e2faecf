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

	"cosmossdk.io/core/header"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ultravault.dev/keeper"
	"ultravault.dev/types"
	"ultravault.dev/utils"
	"ultravault.dev/utils/mocks"
)

// setupCustodyTest is setupTest with a custodian wired into the configuration.
func setupCustodyTest(t *testing.T) (*keeper.Keeper, types.MsgServer, *mocks.BankKeeper, sdk.Context, utils.Account) {
	t.Helper()

	bank := mocks.BankKeeper{
		Balances: make(map[string]sdk.Coins),
	}
	k, ctx := mocks.VaultKeeper(t, bank)
	ctx = ctx.WithHeaderInfo(header.Info{Time: genesisTime})

	custodian := utils.TestAccount()
	require.NoError(t, k.InitializeVault(ctx, types.VaultConfig{
		BaseDenom:     "uusdc",
		ShareDenom:    "uvshare",
		BaseDecimals:  6,
		ShareDecimals: 6,
		OracleManager: utils.TestAccount().Address,
		RateProvider:  utils.TestAccount().Address,
		Custodian:     custodian.Address,
		FeeRecipient:  utils.TestAccount().Address,
	}))

	return k, keeper.NewMsgServer(k), &bank, ctx, custodian
}

func TestDirectCustodyForwardsDeposits(t *testing.T) {
	k, server, bank, ctx, custodian := setupCustodyTest(t)
	k.SetHooks(keeper.NewDirectCustodyHooks(k))
	bob := utils.TestAccount()
	fund(bank, bob, "uusdc", 100*ONE)

	// ACT
	_, err := server.Deposit(ctx, &types.MsgDeposit{
		Signer: bob.Address,
		Amount: sdk.NewCoin("uusdc", math.NewInt(100*ONE)),
	})

	// ASSERT: The deposit ends with the custodian, not the vault account
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), bank.Balances[custodian.Address].AmountOf("uusdc"))
	assert.True(t, bank.Balances[types.ModuleAddress.String()].AmountOf("uusdc").IsZero())
}

func TestFeederHooksRouteAndReconcile(t *testing.T) {
	k, server, bank, ctx, _ := setupCustodyTest(t)
	feeder := utils.TestAccount()
	k.SetHooks(keeper.NewFeederHooks(k, feeder.Bytes))
	bob := utils.TestAccount()
	fund(bank, bob, "uusdc", 100*ONE)

	// ARRANGE: Deposits route through the feeder account
	_, err := server.Deposit(ctx, &types.MsgDeposit{
		Signer: bob.Address,
		Amount: sdk.NewCoin("uusdc", math.NewInt(100*ONE)),
	})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), bank.Balances[feeder.Address].AmountOf("uusdc"))

	// ARRANGE: Drain most of the feeder so fulfillment cannot settle in full
	require.NoError(t, bank.SendCoins(ctx, feeder.Bytes, utils.TestAccount().Bytes,
		sdk.NewCoins(sdk.NewCoin("uusdc", math.NewInt(70*ONE)))))

	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	// ACT: Fulfill 50 shares against 30 USDC of feeder liquidity
	resp, err := server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(50 * ONE),
	})

	// ASSERT: The credited amount reconciles down to what actually settled
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(30*ONE), resp.Assets)

	claimable, err := k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(30*ONE), claimable.Assets)
	assert.Equal(t, math.NewInt(50*ONE), claimable.Shares)
	assert.True(t, bank.Balances[feeder.Address].AmountOf("uusdc").IsZero())
}

func TestFeederHooksRejectWithoutLiquidity(t *testing.T) {
	k, server, bank, ctx, _ := setupCustodyTest(t)
	feeder := utils.TestAccount()
	k.SetHooks(keeper.NewFeederHooks(k, feeder.Bytes))
	bob := utils.TestAccount()
	fund(bank, bob, "uusdc", 100*ONE)

	_, err := server.Deposit(ctx, &types.MsgDeposit{
		Signer: bob.Address,
		Amount: sdk.NewCoin("uusdc", math.NewInt(100*ONE)),
	})
	require.NoError(t, err)

	// ARRANGE: Empty the feeder entirely
	require.NoError(t, bank.SendCoins(ctx, feeder.Bytes, utils.TestAccount().Bytes,
		sdk.NewCoins(sdk.NewCoin("uusdc", math.NewInt(100*ONE)))))

	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	// ACT
	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(50 * ONE),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
}
