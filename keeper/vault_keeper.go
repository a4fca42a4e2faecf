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

package keeper

import (
	"context"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"ultravault.dev/types"
)

type Keeper struct {
	authority string

	store store.KVStoreService

	logger  log.Logger
	header  header.Service
	address address.Codec
	bank    types.BankKeeper
	hooks   types.VaultHooks

	Paused collections.Item[bool]
	Params collections.Item[types.Params]
	Config collections.Item[types.VaultConfig]
	Fees   collections.Item[types.Fees]
	Assets collections.Map[string, types.AssetData]
	Prices collections.Map[collections.Pair[string, string], types.Price]

	// Redemption state is keyed (controller, vault, asset) so a single store
	// can back several vault instances. Writes are gated in redeem_queue.go.
	Pending   collections.Map[collections.Triple[[]byte, []byte, string], types.PendingRedeem]
	Claimable collections.Map[collections.Triple[[]byte, []byte, string], types.ClaimableRedeem]

	Operators collections.Map[collections.Pair[[]byte, []byte], bool]
	Managers  collections.Map[collections.Pair[[]byte, []byte], bool]
	Proposals collections.Map[string, types.AddressUpdateProposal]

	GuardConfig     collections.Item[types.GuardConfig]
	GuardMarks      collections.Map[collections.Pair[string, string], math.LegacyDec]
	GuardTrips      collections.Map[uint64, types.GuardTrip]
	GuardTripNextID collections.Item[uint64]
}

func NewKeeper(
	authority string,
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	address address.Codec,
	bank types.BankKeeper,
) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		authority: authority,

		store: store,

		logger:  logger.With("module", types.ModuleName),
		header:  header,
		address: address,
		bank:    bank,
		hooks:   types.NoopVaultHooks{},

		Paused: collections.NewItem(builder, types.PausedKey, "paused", collections.BoolValue),
		Params: collections.NewItem(builder, types.ParamsKey, "params", types.JSONValue[types.Params]("params")),
		Config: collections.NewItem(builder, types.VaultConfigKey, "config", types.JSONValue[types.VaultConfig]("config")),
		Fees:   collections.NewItem(builder, types.FeesKey, "fees", types.JSONValue[types.Fees]("fees")),
		Assets: collections.NewMap(builder, types.AssetPrefix, "assets", collections.StringKey, types.JSONValue[types.AssetData]("asset")),
		Prices: collections.NewMap(builder, types.PricePrefix, "prices", collections.PairKeyCodec(collections.StringKey, collections.StringKey), types.JSONValue[types.Price]("price")),

		Pending:   collections.NewMap(builder, types.PendingPrefix, "pending_redeems", collections.TripleKeyCodec(collections.BytesKey, collections.BytesKey, collections.StringKey), types.JSONValue[types.PendingRedeem]("pending_redeem")),
		Claimable: collections.NewMap(builder, types.ClaimablePrefix, "claimable_redeems", collections.TripleKeyCodec(collections.BytesKey, collections.BytesKey, collections.StringKey), types.JSONValue[types.ClaimableRedeem]("claimable_redeem")),

		Operators: collections.NewMap(builder, types.OperatorPrefix, "operators", collections.PairKeyCodec(collections.BytesKey, collections.BytesKey), collections.BoolValue),
		Managers:  collections.NewMap(builder, types.ManagerPrefix, "managers", collections.PairKeyCodec(collections.BytesKey, collections.BytesKey), collections.BoolValue),
		Proposals: collections.NewMap(builder, types.ProposalPrefix, "proposals", collections.StringKey, types.JSONValue[types.AddressUpdateProposal]("proposal")),

		GuardConfig:     collections.NewItem(builder, types.GuardConfigKey, "guard_config", types.JSONValue[types.GuardConfig]("guard_config")),
		GuardMarks:      collections.NewMap(builder, types.GuardMarkPrefix, "guard_marks", collections.PairKeyCodec(collections.StringKey, collections.StringKey), types.JSONValue[math.LegacyDec]("guard_mark")),
		GuardTrips:      collections.NewMap(builder, types.GuardTripPrefix, "guard_trips", collections.Uint64Key, types.JSONValue[types.GuardTrip]("guard_trip")),
		GuardTripNextID: collections.NewItem(builder, types.GuardTripNextIDKey, "guard_trip_next_id", collections.Uint64Value),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// SetBankKeeper overwrites the bank keeper used in this module.
func (k *Keeper) SetBankKeeper(bankKeeper types.BankKeeper) {
	k.bank = bankKeeper
}

// SetHooks overwrites the custody hooks. Passing nil restores the no-op set.
func (k *Keeper) SetHooks(hooks types.VaultHooks) {
	if hooks == nil {
		hooks = types.NoopVaultHooks{}
	}
	k.hooks = hooks
}

// GetAuthority returns the configured module authority.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// InitializeVault seeds a fresh vault: configuration, default parameters and
// guard limits, the zero fee schedule with its starting high-water mark, the
// base asset as the first pegged asset, and a 1:1 share price against the
// base denom. Calling it twice is an error.
func (k *Keeper) InitializeVault(ctx context.Context, config types.VaultConfig) error {
	if has, err := k.Config.Has(ctx); err != nil {
		return sdkerrors.Wrap(err, "unable to check vault configuration")
	} else if has {
		return sdkerrors.Wrap(types.ErrInvalidRequest, "vault is already initialized")
	}

	if config.BaseDecimals < types.MinAssetDecimals || config.BaseDecimals > types.MaxAssetDecimals {
		return sdkerrors.Wrapf(types.ErrInvalidDecimals, "base decimals %d outside [%d, %d]", config.BaseDecimals, types.MinAssetDecimals, types.MaxAssetDecimals)
	}
	if config.ShareDecimals < types.MinAssetDecimals || config.ShareDecimals > types.MaxAssetDecimals {
		return sdkerrors.Wrapf(types.ErrInvalidDecimals, "share decimals %d outside [%d, %d]", config.ShareDecimals, types.MinAssetDecimals, types.MaxAssetDecimals)
	}

	if err := k.Config.Set(ctx, config); err != nil {
		return sdkerrors.Wrap(err, "unable to store vault configuration")
	}
	if err := k.Params.Set(ctx, types.DefaultParams()); err != nil {
		return sdkerrors.Wrap(err, "unable to store default parameters")
	}
	if err := k.GuardConfig.Set(ctx, types.DefaultGuardConfig()); err != nil {
		return sdkerrors.Wrap(err, "unable to store default guard configuration")
	}
	if err := k.Paused.Set(ctx, false); err != nil {
		return sdkerrors.Wrap(err, "unable to store pause flag")
	}

	now := k.header.GetHeaderInfo(ctx).Time
	fees := types.Fees{
		PerformanceRate: math.LegacyZeroDec(),
		ManagementRate:  math.LegacyZeroDec(),
		WithdrawalRate:  math.LegacyZeroDec(),
		LastUpdate:      now,
		HighWaterMark:   oneUnit(config.BaseDecimals),
	}
	if err := k.Fees.Set(ctx, fees); err != nil {
		return sdkerrors.Wrap(err, "unable to store fee schedule")
	}

	baseAsset := types.AssetData{IsPegged: true, Decimals: config.BaseDecimals}
	if err := k.Assets.Set(ctx, config.BaseDenom, baseAsset); err != nil {
		return sdkerrors.Wrap(err, "unable to register base asset")
	}

	sharePrice := types.Price{
		Price:       math.LegacyOneDec(),
		TargetPrice: math.LegacyOneDec(),
		LastUpdated: now,
	}
	if err := k.Prices.Set(ctx, collections.Join(config.ShareDenom, config.BaseDenom), sharePrice); err != nil {
		return sdkerrors.Wrap(err, "unable to store initial share price")
	}
	if err := k.GuardMarks.Set(ctx, collections.Join(config.ShareDenom, config.BaseDenom), math.LegacyOneDec()); err != nil {
		return sdkerrors.Wrap(err, "unable to store initial guard mark")
	}

	k.logger.Info("initialized vault", "share_denom", config.ShareDenom, "base_denom", config.BaseDenom)

	return nil
}

// oneUnit returns 10^decimals, one whole token of the given precision.
func oneUnit(decimals uint32) math.Int {
	return math.NewIntWithDecimal(1, int(decimals))
}
