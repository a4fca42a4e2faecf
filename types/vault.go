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
	"math/big"
	"time"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// Hard caps on the configurable fee rates, expressed as decimal fractions.
var (
	MaxPerformanceRate = math.LegacyMustNewDecFromStr("0.3")
	MaxManagementRate  = math.LegacyMustNewDecFromStr("0.05")
	MaxWithdrawalRate  = math.LegacyMustNewDecFromStr("0.01")
)

// UnlimitedAmount is the sentinel returned by deposit limits when no cap is
// configured. Large enough to never bind while staying well inside math.Int.
var UnlimitedAmount = math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128))

const (
	MinAssetDecimals = 6
	MaxAssetDecimals = 18

	// DefaultAssetDecimals is assumed for denoms with no registered metadata.
	DefaultAssetDecimals = 18
)

// Fees holds the vault fee schedule and the accrual bookkeeping that goes
// with it. HighWaterMark is the historical peak value of one whole share in
// base units; it only ever increases.
type Fees struct {
	PerformanceRate math.LegacyDec `json:"performance_rate"`
	ManagementRate  math.LegacyDec `json:"management_rate"`
	WithdrawalRate  math.LegacyDec `json:"withdrawal_rate"`
	LastUpdate      time.Time      `json:"last_update"`
	HighWaterMark   math.Int       `json:"high_water_mark"`
}

// Validate checks the fee schedule against the hard caps.
func (f Fees) Validate() error {
	if f.PerformanceRate.IsNil() || f.PerformanceRate.IsNegative() || f.PerformanceRate.GT(MaxPerformanceRate) {
		return errors.Wrapf(ErrInvalidFee, "performance rate must be in [0, %s]", MaxPerformanceRate)
	}
	if f.ManagementRate.IsNil() || f.ManagementRate.IsNegative() || f.ManagementRate.GT(MaxManagementRate) {
		return errors.Wrapf(ErrInvalidFee, "management rate must be in [0, %s]", MaxManagementRate)
	}
	if f.WithdrawalRate.IsNil() || f.WithdrawalRate.IsNegative() || f.WithdrawalRate.GT(MaxWithdrawalRate) {
		return errors.Wrapf(ErrInvalidFee, "withdrawal rate must be in [0, %s]", MaxWithdrawalRate)
	}
	return nil
}

// PendingRedeem is the per-(controller, vault, asset) aggregation of shares
// escrowed and awaiting operator fulfillment. RequestTime records the most
// recent request and communicates request age to operators; it does not gate
// fulfillment timing.
type PendingRedeem struct {
	Shares      math.Int  `json:"shares"`
	RequestTime time.Time `json:"request_time"`
}

// IsEmpty reports whether the record is logically empty regardless of its
// request timestamp.
func (p PendingRedeem) IsEmpty() bool {
	return p.Shares.IsNil() || !p.Shares.IsPositive()
}

// ClaimableRedeem is an already-fulfilled bucket of assets and the shares
// they were settled against. Both fields move monotonically toward zero under
// claims; the assets:shares ratio is the fulfillment-time exchange rate,
// drifting only by integer rounding in the vault's favor.
type ClaimableRedeem struct {
	Assets math.Int `json:"assets"`
	Shares math.Int `json:"shares"`
}

func (c ClaimableRedeem) IsEmpty() bool {
	assets := !c.Assets.IsNil() && c.Assets.IsPositive()
	shares := !c.Shares.IsNil() && c.Shares.IsPositive()
	return !assets && !shares
}

// AssetData describes an accepted deposit/withdraw asset. Pegged assets
// convert 1:1 with the base asset after decimal rescaling; non-pegged assets
// are valued through the oracle pair (RateBase, vault base denom).
type AssetData struct {
	IsPegged bool   `json:"is_pegged"`
	Decimals uint32 `json:"decimals"`
	RateBase string `json:"rate_base,omitempty"`
}

// AddressUpdateProposal is the ephemeral record of a proposed integration
// address rotation. Created on propose, consumed on accept, and silently
// overwritten by a newer propose.
type AddressUpdateProposal struct {
	Address    string    `json:"address"`
	ProposedAt time.Time `json:"proposed_at"`
}

// VaultConfig identifies the vault's denoms and its external collaborators.
type VaultConfig struct {
	BaseDenom     string `json:"base_denom"`
	ShareDenom    string `json:"share_denom"`
	BaseDecimals  uint32 `json:"base_decimals"`
	ShareDecimals uint32 `json:"share_decimals"`
	OracleManager string `json:"oracle_manager"`
	RateProvider  string `json:"rate_provider"`
	Custodian     string `json:"custodian,omitempty"`
	FeeRecipient  string `json:"fee_recipient"`
}

// Params are the governance-tunable knobs that are not part of the fee
// schedule. Durations are seconds; a zero DepositCap means uncapped.
type Params struct {
	MinVestingPeriod int64    `json:"min_vesting_period"`
	MaxVestingPeriod int64    `json:"max_vesting_period"`
	AcceptDelay      int64    `json:"accept_delay"`
	AcceptWindow     int64    `json:"accept_window"`
	DepositCap       math.Int `json:"deposit_cap"`
	MinDepositAmount math.Int `json:"min_deposit_amount"`
}

func DefaultParams() Params {
	return Params{
		MinVestingPeriod: 23 * 60 * 60,
		MaxVestingPeriod: 60 * 24 * 60 * 60,
		AcceptDelay:      3 * 24 * 60 * 60,
		AcceptWindow:     7 * 24 * 60 * 60,
		DepositCap:       math.ZeroInt(),
		MinDepositAmount: math.ZeroInt(),
	}
}

// GuardConfig bounds how far a single oracle update may move a price. Both
// limits are decimal fractions capped at 1 (100%). With ApplyAndPause set a
// violating update is still applied, but the vault pauses as a safety net;
// otherwise the update is rejected outright.
type GuardConfig struct {
	MaxPriceJump  math.LegacyDec `json:"max_price_jump"`
	MaxDrawdown   math.LegacyDec `json:"max_drawdown"`
	ApplyAndPause bool           `json:"apply_and_pause"`
}

func (c GuardConfig) Validate() error {
	one := math.LegacyOneDec()
	if c.MaxPriceJump.IsNil() || c.MaxPriceJump.IsNegative() || c.MaxPriceJump.GT(one) {
		return errors.Wrap(ErrInvalidRequest, "max price jump must be in [0, 1]")
	}
	if c.MaxDrawdown.IsNil() || c.MaxDrawdown.IsNegative() || c.MaxDrawdown.GT(one) {
		return errors.Wrap(ErrInvalidRequest, "max drawdown must be in [0, 1]")
	}
	return nil
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxPriceJump:  math.LegacyOneDec(),
		MaxDrawdown:   math.LegacyOneDec(),
		ApplyAndPause: false,
	}
}

// GuardTrip records a rejected or flagged oracle update for later review.
type GuardTrip struct {
	Base           string         `json:"base"`
	Quote          string         `json:"quote"`
	LastPrice      math.LegacyDec `json:"last_price"`
	AttemptedPrice math.LegacyDec `json:"attempted_price"`
	Reason         string         `json:"reason"`
	Time           time.Time      `json:"time"`
}
