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

// Event types emitted by the message handlers.
const (
	EventTypeDeposit          = "ultravault_deposit"
	EventTypeRedeemRequested  = "ultravault_redeem_requested"
	EventTypeRedeemFulfilled  = "ultravault_redeem_fulfilled"
	EventTypeRedeemCancelled  = "ultravault_redeem_cancelled"
	EventTypeWithdraw         = "ultravault_withdraw"
	EventTypeFeesCollected    = "ultravault_fees_collected"
	EventTypeFeesUpdated      = "ultravault_fees_updated"
	EventTypePriceUpdated     = "ultravault_price_updated"
	EventTypePriceScheduled   = "ultravault_price_scheduled"
	EventTypeGuardTripped     = "ultravault_guard_tripped"
	EventTypePaused           = "ultravault_paused"
	EventTypeUnpaused         = "ultravault_unpaused"
	EventTypeAssetAdded       = "ultravault_asset_added"
	EventTypeAssetRemoved     = "ultravault_asset_removed"
	EventTypeOperatorSet      = "ultravault_operator_set"
	EventTypeManagerSet       = "ultravault_manager_set"
	EventTypeAddressProposed  = "ultravault_address_proposed"
	EventTypeAddressAccepted  = "ultravault_address_accepted"
)

// Reasons recorded on guard trips and their events.
const (
	GuardReasonPriceJump = "price jump exceeds limit"
	GuardReasonDrawdown  = "drawdown from high-water mark exceeds limit"
)

// Attribute keys shared across events.
const (
	AttributeKeySender       = "sender"
	AttributeKeyOwner        = "owner"
	AttributeKeyController   = "controller"
	AttributeKeyReceiver     = "receiver"
	AttributeKeyAsset        = "asset"
	AttributeKeyAssets       = "assets"
	AttributeKeyShares       = "shares"
	AttributeKeyFee          = "fee"
	AttributeKeyBase         = "base"
	AttributeKeyQuote        = "quote"
	AttributeKeyPrice        = "price"
	AttributeKeyTargetPrice  = "target_price"
	AttributeKeyVestingEnds  = "vesting_ends"
	AttributeKeyReason       = "reason"
	AttributeKeyKind         = "kind"
	AttributeKeyAddress      = "address"
	AttributeKeyOperator     = "operator"
	AttributeKeyManager      = "manager"
	AttributeKeyApproved     = "approved"
	AttributeKeyRequestTime  = "request_time"
)
