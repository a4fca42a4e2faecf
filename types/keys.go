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
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const ModuleName = "ultravault"

// ModuleAddress is the vault account. It holds deposited assets awaiting
// custody forwarding and shares escrowed by redeem requests.
var ModuleAddress sdk.AccAddress = authtypes.NewModuleAddress(ModuleName)

var (
	PausedKey          = []byte("ultravault/paused")
	ParamsKey          = []byte("ultravault/params")
	VaultConfigKey     = []byte("ultravault/config")
	FeesKey            = []byte("ultravault/fees")
	AssetPrefix        = []byte("ultravault/assets/")
	PricePrefix        = []byte("ultravault/prices/")
	PendingPrefix      = []byte("ultravault/redeem/pending/")
	ClaimablePrefix    = []byte("ultravault/redeem/claimable/")
	OperatorPrefix     = []byte("ultravault/operators/")
	ManagerPrefix      = []byte("ultravault/managers/")
	ProposalPrefix     = []byte("ultravault/proposals/")
	GuardConfigKey     = []byte("ultravault/guard/config")
	GuardMarkPrefix    = []byte("ultravault/guard/marks/")
	GuardTripPrefix    = []byte("ultravault/guard/trips/")
	GuardTripNextIDKey = []byte("ultravault/guard/trip_next_id")
)

// Proposal kinds accepted by the two-step address rotation cycle.
const (
	ProposalKindOracleManager = "oracle_manager"
	ProposalKindRateProvider  = "rate_provider"
	ProposalKindCustodian     = "custodian"
)

// RedeemRequestID is the identifier returned by every redeem request.
// Requests are fully aggregated into the single (controller, asset) slot, so
// there is exactly one slot and one constant id rather than a growing list.
const RedeemRequestID uint64 = 0

// ValidProposalKind reports whether the supplied kind names a rotatable
// integration address.
func ValidProposalKind(kind string) bool {
	switch kind {
	case ProposalKindOracleManager, ProposalKindRateProvider, ProposalKindCustodian:
		return true
	default:
		return false
	}
}
