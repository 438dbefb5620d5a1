package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// Keeper of the escrow store. It holds custody of all order payments in the
// module account and settles them against direct fills, local counterparty
// orders or cross-chain orders reached over IBC.
type Keeper struct {
	storeKey      storetypes.StoreKey
	cdc           codec.BinaryCodec
	bankKeeper    types.BankKeeper
	channelKeeper types.ChannelKeeper
	portKeeper    types.PortKeeper
	scopedKeeper  types.ScopedKeeper

	// counterparties maps a settlement venue address to its fill capability.
	// Registration happens at wiring time, before the first block.
	counterparties map[string]types.OrderFiller
}

// NewKeeper creates a new escrow Keeper instance.
//
// The escrow module account must not be in the bank keeper's blocked address
// list: composite settlement runs fills with the module itself as filler, so
// coins move to and from the module address through the regular send paths.
func NewKeeper(
	cdc codec.BinaryCodec,
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	channelKeeper types.ChannelKeeper,
	portKeeper types.PortKeeper,
	scopedKeeper types.ScopedKeeper,
) *Keeper {
	return &Keeper{
		storeKey:       key,
		cdc:            cdc,
		bankKeeper:     bankKeeper,
		channelKeeper:  channelKeeper,
		portKeeper:     portKeeper,
		scopedKeeper:   scopedKeeper,
		counterparties: make(map[string]types.OrderFiller),
	}
}

// getStore returns the KVStore for the escrow module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetModuleAddress returns the module account address holding the escrow
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// RegisterCounterparty registers a same-chain settlement venue under its
// address. The escrow keeper registers itself so composite fills between two
// local orders resolve without special casing.
func (k *Keeper) RegisterCounterparty(address string, filler types.OrderFiller) {
	k.counterparties[address] = filler
}

// ClaimCapability claims a channel capability for later authentication.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// BindPort binds the IBC port for the escrow module and claims the capability.
func (k Keeper) BindPort(ctx sdk.Context) error {
	if k.portKeeper.IsBound(ctx, types.PortID) {
		return nil
	}

	portCap := k.portKeeper.BindPort(ctx, types.PortID)
	return k.scopedKeeper.ClaimCapability(ctx, portCap, host.PortPath(types.PortID))
}
