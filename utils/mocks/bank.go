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

package mocks

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

// BankKeeper is an in-memory token ledger keyed by bech32 address. Module
// accounts use the standard module address derivation so transfers between
// accounts and modules land in the same map.
type BankKeeper struct {
	Balances map[string]sdk.Coins
}

func (k BankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, k.Balances[addr.String()].AmountOf(denom))
}

func (k BankKeeper) GetSupply(_ context.Context, denom string) sdk.Coin {
	total := sdk.NewCoin(denom, math.ZeroInt())
	for _, balance := range k.Balances {
		total.Amount = total.Amount.Add(balance.AmountOf(denom))
	}

	return total
}

func (k BankKeeper) MintCoins(_ context.Context, moduleName string, amt sdk.Coins) error {
	address := authtypes.NewModuleAddress(moduleName).String()
	k.Balances[address] = k.Balances[address].Add(amt...)

	return nil
}

func (k BankKeeper) BurnCoins(_ context.Context, moduleName string, amt sdk.Coins) error {
	address := authtypes.NewModuleAddress(moduleName).String()

	balance, negative := k.Balances[address].SafeSub(amt...)
	if negative {
		return fmt.Errorf("%s is smaller than %s", k.Balances[address], amt)
	}
	k.Balances[address] = balance

	return nil
}

func (k BankKeeper) SendCoins(_ context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	return k.transfer(fromAddr.String(), toAddr.String(), amt)
}

func (k BankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return k.transfer(senderAddr.String(), authtypes.NewModuleAddress(recipientModule).String(), amt)
}

func (k BankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return k.transfer(authtypes.NewModuleAddress(senderModule).String(), recipientAddr.String(), amt)
}

func (k BankKeeper) transfer(from, to string, amt sdk.Coins) error {
	balance, negative := k.Balances[from].SafeSub(amt...)
	if negative {
		return fmt.Errorf("%s is smaller than %s", k.Balances[from], amt)
	}

	k.Balances[from] = balance
	k.Balances[to] = k.Balances[to].Add(amt...)

	return nil
}
