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
	"time"

	"cosmossdk.io/math"
)

// Price is the stored quote for one (base, quote) pair. A fixed price has a
// zero FullVestingAt; a vesting price moves linearly from Price at LastUpdated
// to TargetPrice at FullVestingAt and holds the target afterwards.
type Price struct {
	Price         math.LegacyDec `json:"price"`
	TargetPrice   math.LegacyDec `json:"target_price"`
	LastUpdated   time.Time      `json:"last_updated"`
	FullVestingAt time.Time      `json:"full_vesting_at,omitempty"`
}

// IsVesting reports whether the price is still ramping at the given time.
func (p Price) IsVesting(now time.Time) bool {
	return !p.FullVestingAt.IsZero() && now.Before(p.FullVestingAt)
}

// CurrentAt resolves the effective price at the given time. The endpoints are
// exact: at LastUpdated the stored price, at or after FullVestingAt the
// target. In between the value interpolates by elapsed over total duration.
func (p Price) CurrentAt(now time.Time) math.LegacyDec {
	if p.Price.IsNil() {
		return math.LegacyZeroDec()
	}
	if p.FullVestingAt.IsZero() {
		return p.Price
	}
	if !now.After(p.LastUpdated) {
		return p.Price
	}
	if !now.Before(p.FullVestingAt) {
		return p.TargetPrice
	}

	total := p.FullVestingAt.Sub(p.LastUpdated)
	elapsed := now.Sub(p.LastUpdated)

	delta := p.TargetPrice.Sub(p.Price)
	progress := math.LegacyNewDec(int64(elapsed)).Quo(math.LegacyNewDec(int64(total)))

	return p.Price.Add(delta.Mul(progress))
}
