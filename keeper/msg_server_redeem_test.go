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
	"math/rand"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ultravault.dev/types"
	"ultravault.dev/utils"
	"ultravault.dev/utils/mocks"
)

// depositFor funds the account and deposits the full amount of uusdc.
func depositFor(t *testing.T, server types.MsgServer, bank *mocks.BankKeeper, ctx sdk.Context, account utils.Account, amount int64) {
	t.Helper()

	fund(bank, account, "uusdc", amount)
	_, err := server.Deposit(ctx, &types.MsgDeposit{
		Signer: account.Address,
		Amount: sdk.NewCoin("uusdc", math.NewInt(amount)),
	})
	require.NoError(t, err)
}

func TestRequestRedeemEscrowsShares(t *testing.T) {
	k, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 1000*ONE)

	// ACT: Bob queues 500 shares for redemption in uusdc
	resp, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(500 * ONE),
		AssetDenom: "uusdc",
	})

	// ASSERT: Shares moved into escrow and the pending slot accumulated
	require.NoError(t, err)
	assert.Equal(t, types.RedeemRequestID, resp.RequestId)
	assert.Equal(t, math.NewInt(500*ONE), bank.Balances[bob.Address].AmountOf("uvshare"))

	pending, err := k.GetPendingRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(500*ONE), pending.Shares)
	assert.Equal(t, genesisTime, pending.RequestTime)

	// ACT: A second request accumulates into the same slot
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(100 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	pending, err = k.GetPendingRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(600*ONE), pending.Shares)
}

func TestRequestRedeemInsufficientBalance(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ACT: Request more shares than Bob holds
	_, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(101 * ONE),
		AssetDenom: "uusdc",
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
}

func TestOperatorGrant(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	alice := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ACT: Alice may not act for Bob without a grant
	_, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     alice.Address,
		Owner:      bob.Address,
		Controller: alice.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ARRANGE: Bob approves Alice as operator
	_, err = server.SetOperator(ctx, &types.MsgSetOperator{
		Signer:   bob.Address,
		Operator: alice.Address,
		Approved: true,
	})
	require.NoError(t, err)

	// ACT: Alice requests against Bob's shares, controlling the claim herself
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     alice.Address,
		Owner:      bob.Address,
		Controller: alice.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	// ARRANGE: Bob revokes the grant
	_, err = server.SetOperator(ctx, &types.MsgSetOperator{
		Signer:   bob.Address,
		Operator: alice.Address,
	})
	require.NoError(t, err)

	// ASSERT: Revoked operators lose access
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     alice.Address,
		Owner:      bob.Address,
		Controller: alice.Address,
		Shares:     math.NewInt(10 * ONE),
		AssetDenom: "uusdc",
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestOperatorSelfGrantRejected(t *testing.T) {
	_, server, _, ctx, _ := setupTest(t)
	bob := utils.TestAccount()

	// ACT
	_, err := server.SetOperator(ctx, &types.MsgSetOperator{
		Signer:   bob.Address,
		Operator: bob.Address,
		Approved: true,
	})

	// ASSERT
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot set self as operator")
}

func TestFulfillRedeemWithWithdrawalFee(t *testing.T) {
	k, server, bank, ctx, env := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 1000*ONE)

	// ARRANGE: 1% withdrawal fee and a 500 share request
	_, err := server.SetFees(ctx, &types.MsgSetFees{
		Signer:          mocks.Authority,
		PerformanceRate: math.LegacyZeroDec(),
		ManagementRate:  math.LegacyZeroDec(),
		WithdrawalRate:  math.LegacyMustNewDecFromStr("0.01"),
	})
	require.NoError(t, err)

	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(500 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	// ACT: The authority fulfills the full request
	resp, err := server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(500 * ONE),
	})

	// ASSERT: 500 USDC quoted, 5 USDC fee, 495 USDC credited
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(495*ONE), resp.Assets)
	assert.Equal(t, math.NewInt(5*ONE), resp.Fee)

	// ASSERT: Pending cleared, claimable credited at the settlement rate
	pending, err := k.GetPendingRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.True(t, pending.IsEmpty())

	claimable, err := k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(495*ONE), claimable.Assets)
	assert.Equal(t, math.NewInt(500*ONE), claimable.Shares)

	// ASSERT: Escrowed shares were burned and the fee paid out in kind
	supply, err := k.ShareSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(500*ONE), supply)
	assert.Equal(t, math.NewInt(5*ONE), bank.Balances[env.feeRecipient.Address].AmountOf("uusdc"))
}

func TestFulfillRedeemUnauthorized(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ACT: A random account cannot fulfill
	_, err := server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(10 * ONE),
	})

	// ASSERT
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestFulfillRedeemNothingPending(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ACT: Fulfill with no pending request
	_, err := server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(10 * ONE),
	})
	require.ErrorIs(t, err, types.ErrNothingToRedeem)

	// ARRANGE: Queue 10 shares, then over-fulfill
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(10 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(20 * ONE),
	})
	require.ErrorIs(t, err, types.ErrNotEnoughPendingShares)
}

func TestFulfillMultipleRedeems(t *testing.T) {
	k, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	alice := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 300*ONE)
	depositFor(t, server, bank, ctx, alice, 200*ONE)

	for _, req := range []struct {
		account utils.Account
		shares  int64
	}{
		{bob, 100 * ONE},
		{alice, 50 * ONE},
	} {
		_, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
			Signer:     req.account.Address,
			Owner:      req.account.Address,
			Controller: req.account.Address,
			Shares:     math.NewInt(req.shares),
			AssetDenom: "uusdc",
		})
		require.NoError(t, err)
	}

	// ACT: One batched fulfillment for both controllers
	resp, err := server.FulfillMultipleRedeems(ctx, &types.MsgFulfillMultipleRedeems{
		Signer:      mocks.Authority,
		Controllers: []string{bob.Address, alice.Address},
		AssetDenoms: []string{"uusdc", "uusdc"},
		Shares:      []math.Int{math.NewInt(100 * ONE), math.NewInt(50 * ONE)},
	})

	// ASSERT: Both buckets credited at the same one-to-one rate
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(150*ONE), resp.TotalAssets)

	for _, account := range []utils.Account{bob, alice} {
		claimable, err := k.GetClaimableRedeem(ctx, account.Bytes, types.ModuleAddress, "uusdc")
		require.NoError(t, err)
		assert.False(t, claimable.IsEmpty())
	}

	// ACT: Mismatched slice lengths are rejected
	_, err = server.FulfillMultipleRedeems(ctx, &types.MsgFulfillMultipleRedeems{
		Signer:      mocks.Authority,
		Controllers: []string{bob.Address},
		AssetDenoms: []string{"uusdc", "uusdc"},
		Shares:      []math.Int{math.NewInt(ONE)},
	})
	require.ErrorIs(t, err, types.ErrLengthMismatch)
}

func TestCancelRedeemRequest(t *testing.T) {
	k, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	_, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(60 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)

	// ACT: Cancel returns the full escrowed amount
	resp, err := server.CancelRedeemRequest(ctx, &types.MsgCancelRedeemRequest{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
	})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(60*ONE), resp.Shares)
	assert.Equal(t, math.NewInt(100*ONE), bank.Balances[bob.Address].AmountOf("uvshare"))

	pending, err := k.GetPendingRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.True(t, pending.IsEmpty())

	// ACT: A second cancel finds nothing
	_, err = server.CancelRedeemRequest(ctx, &types.MsgCancelRedeemRequest{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
	})
	require.ErrorIs(t, err, types.ErrNothingToRedeem)
}

func TestWithdrawAndRedeemDrainBucket(t *testing.T) {
	k, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 1000*ONE)

	// ARRANGE: Fulfill 500 shares under a 1% withdrawal fee, leaving a bucket
	// of 495 USDC against 500 shares
	_, err := server.SetFees(ctx, &types.MsgSetFees{
		Signer:          mocks.Authority,
		PerformanceRate: math.LegacyZeroDec(),
		ManagementRate:  math.LegacyZeroDec(),
		WithdrawalRate:  math.LegacyMustNewDecFromStr("0.01"),
	})
	require.NoError(t, err)
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(500 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)
	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(500 * ONE),
	})
	require.NoError(t, err)

	// ACT: Withdraw an exact 99 USDC
	withdrawResp, err := server.Withdraw(ctx, &types.MsgWithdraw{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Assets:     math.NewInt(99 * ONE),
	})

	// ASSERT: Shares consumed at the bucket rate, rounded against the claimant
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), withdrawResp.Shares)
	assert.Equal(t, math.NewInt(99*ONE), bank.Balances[bob.Address].AmountOf("uusdc"))

	claimable, err := k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(396*ONE), claimable.Assets)
	assert.Equal(t, math.NewInt(400*ONE), claimable.Shares)

	// ACT: Redeem the remaining 400 shares
	redeemResp, err := server.Redeem(ctx, &types.MsgRedeem{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(400 * ONE),
	})

	// ASSERT: The bucket drains to exactly zero on both sides
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(396*ONE), redeemResp.Assets)
	assert.Equal(t, math.NewInt(495*ONE), bank.Balances[bob.Address].AmountOf("uusdc"))

	claimable, err = k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.True(t, claimable.IsEmpty())
}

func TestRedeemDrainRandomFractions(t *testing.T) {
	k, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 1000*ONE)

	// ARRANGE: A 495 USDC bucket against 500 shares, as in the exact-drain case
	_, err := server.SetFees(ctx, &types.MsgSetFees{
		Signer:          mocks.Authority,
		PerformanceRate: math.LegacyZeroDec(),
		ManagementRate:  math.LegacyZeroDec(),
		WithdrawalRate:  math.LegacyMustNewDecFromStr("0.01"),
	})
	require.NoError(t, err)
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(500 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)
	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(500 * ONE),
	})
	require.NoError(t, err)

	// ACT: Drain the bucket in random share fractions
	rng := rand.New(rand.NewSource(42))
	payout := math.ZeroInt()
	steps := 0
	for steps < 10_000 {
		claimable, err := k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
		require.NoError(t, err)
		if claimable.IsEmpty() {
			break
		}

		shares := math.NewInt(rng.Int63n(claimable.Shares.Int64()) + 1)
		resp, err := server.Redeem(ctx, &types.MsgRedeem{
			Signer:     bob.Address,
			Controller: bob.Address,
			AssetDenom: "uusdc",
			Shares:     shares,
		})
		require.NoError(t, err)

		payout = payout.Add(resp.Assets)
		steps++
	}

	// ASSERT: The bucket ends at exactly zero on both sides
	claimable, err := k.GetClaimableRedeem(ctx, bob.Bytes, types.ModuleAddress, "uusdc")
	require.NoError(t, err)
	assert.True(t, claimable.Assets.IsZero())
	assert.True(t, claimable.Shares.IsZero())

	// ASSERT: Payouts never exceed the credited assets and each step loses at
	// most one unit to rounding
	assert.True(t, payout.LTE(math.NewInt(495*ONE)))
	assert.True(t, payout.GTE(math.NewInt(495*ONE).SubRaw(int64(steps))))
	assert.Equal(t, payout, bank.Balances[bob.Address].AmountOf("uusdc"))
}

func TestWithdrawBounds(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ACT: Withdraw with nothing claimable
	_, err := server.Withdraw(ctx, &types.MsgWithdraw{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Assets:     math.NewInt(ONE),
	})
	require.ErrorIs(t, err, types.ErrNothingToWithdraw)

	// ARRANGE: Settle 50 shares into the bucket
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)
	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(50 * ONE),
	})
	require.NoError(t, err)

	// ACT: Claim more than the bucket holds
	_, err = server.Withdraw(ctx, &types.MsgWithdraw{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Assets:     math.NewInt(51 * ONE),
	})
	require.ErrorIs(t, err, types.ErrInsufficientClaimable)

	_, err = server.Redeem(ctx, &types.MsgRedeem{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(51 * ONE),
	})
	require.ErrorIs(t, err, types.ErrInsufficientClaimable)
}

func TestClaimsStayOpenWhilePaused(t *testing.T) {
	_, server, bank, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	depositFor(t, server, bank, ctx, bob, 100*ONE)

	// ARRANGE: Fulfilled bucket, then pause
	_, err := server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(50 * ONE),
		AssetDenom: "uusdc",
	})
	require.NoError(t, err)
	_, err = server.FulfillRedeem(ctx, &types.MsgFulfillRedeem{
		Signer:     mocks.Authority,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Shares:     math.NewInt(50 * ONE),
	})
	require.NoError(t, err)
	_, err = server.Pause(ctx, &types.MsgPause{Signer: mocks.Authority})
	require.NoError(t, err)

	// ACT: New requests are blocked, settled claims are not
	_, err = server.RequestRedeem(ctx, &types.MsgRequestRedeem{
		Signer:     bob.Address,
		Owner:      bob.Address,
		Controller: bob.Address,
		Shares:     math.NewInt(10 * ONE),
		AssetDenom: "uusdc",
	})
	require.ErrorIs(t, err, types.ErrVaultPaused)

	resp, err := server.Withdraw(ctx, &types.MsgWithdraw{
		Signer:     bob.Address,
		Controller: bob.Address,
		AssetDenom: "uusdc",
		Assets:     math.NewInt(50 * ONE),
	})
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), resp.Shares)
}

func TestRedeemQueueWriteGate(t *testing.T) {
	k, _, _, ctx, _ := setupTest(t)
	bob := utils.TestAccount()
	outsider := utils.TestAccount()

	// ACT: An arbitrary account cannot write another vault's queue
	err := k.AddPendingShares(ctx, outsider.Bytes, bob.Bytes, types.ModuleAddress, "uusdc", math.NewInt(ONE), genesisTime)

	// ASSERT
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// ARRANGE: Registered managers may write
	require.NoError(t, k.SetManager(ctx, types.ModuleAddress, outsider.Bytes, true))
	err = k.AddPendingShares(ctx, outsider.Bytes, bob.Bytes, types.ModuleAddress, "uusdc", math.NewInt(ONE), genesisTime)
	require.NoError(t, err)
}
