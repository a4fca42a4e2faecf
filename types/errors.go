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

import "cosmossdk.io/errors"

var (
	// Input validation.
	ErrInvalidRequest  = errors.Register(ModuleName, 2, "invalid request")
	ErrInvalidAmount   = errors.Register(ModuleName, 3, "invalid amount")
	ErrLengthMismatch  = errors.Register(ModuleName, 4, "input arrays must have equal length")
	ErrInvalidDecimals = errors.Register(ModuleName, 5, "asset decimals out of supported range")
	ErrInvalidFee      = errors.Register(ModuleName, 6, "fee rate exceeds maximum")

	// Authorization.
	ErrUnauthorized     = errors.Register(ModuleName, 7, "caller is not authorized")
	ErrInvalidAuthority = errors.Register(ModuleName, 8, "caller is not the module authority")

	// State preconditions.
	ErrVaultPaused            = errors.Register(ModuleName, 9, "vault is paused")
	ErrEmptyDeposit           = errors.Register(ModuleName, 10, "deposit resolves to zero shares")
	ErrInsufficientBalance    = errors.Register(ModuleName, 11, "insufficient share balance")
	ErrNothingToRedeem        = errors.Register(ModuleName, 12, "no shares pending redemption")
	ErrNotEnoughPendingShares = errors.Register(ModuleName, 13, "requested shares exceed pending shares")
	ErrInvalidRedeemCall      = errors.Register(ModuleName, 14, "redeem fulfillment resolves to zero")
	ErrNothingToWithdraw      = errors.Register(ModuleName, 15, "nothing to withdraw")
	ErrInsufficientClaimable  = errors.Register(ModuleName, 16, "claimable balance is insufficient")
	ErrAssetNotSupported      = errors.Register(ModuleName, 17, "asset is not supported")
	ErrAssetExists            = errors.Register(ModuleName, 18, "asset is already registered")

	// Oracle and price safety. A guard violation is not an error: failed
	// handlers roll back, which would discard the pause and trip record the
	// violation must leave behind.
	ErrNoPriceData           = errors.Register(ModuleName, 19, "no price data for pair")
	ErrZeroVestingStartPrice = errors.Register(ModuleName, 20, "cannot begin vesting from a zero price")
	ErrInvalidVestingTime    = errors.Register(ModuleName, 21, "vesting duration outside configured bounds")

	// Timing windows.
	ErrProposalNotFound = errors.Register(ModuleName, 22, "no pending proposal")
	ErrProposalTooEarly = errors.Register(ModuleName, 23, "proposal cannot be accepted yet")
	ErrProposalExpired  = errors.Register(ModuleName, 24, "proposal has expired")

	// Unsupported by design: settlement price is only known at fulfillment
	// time, so synchronous previews of the claim path never succeed.
	ErrUnsupportedPreview = errors.Register(ModuleName, 25, "preview is unsupported for async redemptions")
)
