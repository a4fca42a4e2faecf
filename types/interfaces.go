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

package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the expected interface of the token ledger. Shares and every
// accepted asset are bank denoms; share supply lives with the bank so the
// vault never tracks its own balances.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetSupply(ctx context.Context, denom string) sdk.Coin
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	BurnCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// VaultHooks customizes the custody flow around deposits and fulfillments.
// Composition replaces subclassing: a vault variant is the base keeper plus a
// hook set, never a modified keeper.
type VaultHooks interface {
	// BeforeDeposit runs after validation but before funds move.
	BeforeDeposit(ctx context.Context, depositor sdk.AccAddress, assets sdk.Coin) error

	// AfterDeposit runs once shares are minted. Implementations typically
	// forward the deposited assets out of the vault account.
	AfterDeposit(ctx context.Context, depositor sdk.AccAddress, assets sdk.Coin, shares math.Int) error

	// BeforeFulfillRedeem runs before escrowed shares are burned.
	BeforeFulfillRedeem(ctx context.Context, controller sdk.AccAddress, asset string, shares math.Int) error

	// AfterFulfillRedeem may adjust the amount credited to the claimable
	// bucket, for flows where the settled liquidity differs from the quote.
	// It returns the final credited amount.
	AfterFulfillRedeem(ctx context.Context, controller sdk.AccAddress, asset string, shares, assets math.Int) (math.Int, error)
}

// NoopVaultHooks is the default hook set for a self-custodied vault.
type NoopVaultHooks struct{}

var _ VaultHooks = NoopVaultHooks{}

func (NoopVaultHooks) BeforeDeposit(context.Context, sdk.AccAddress, sdk.Coin) error {
	return nil
}

func (NoopVaultHooks) AfterDeposit(context.Context, sdk.AccAddress, sdk.Coin, math.Int) error {
	return nil
}

func (NoopVaultHooks) BeforeFulfillRedeem(context.Context, sdk.AccAddress, string, math.Int) error {
	return nil
}

func (NoopVaultHooks) AfterFulfillRedeem(_ context.Context, _ sdk.AccAddress, _ string, _, assets math.Int) (math.Int, error) {
	return assets, nil
}
