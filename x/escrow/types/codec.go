package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary interfaces and concrete types
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateOrder{}, "escrow/MsgCreateOrder", nil)
	cdc.RegisterConcrete(&MsgCancelOrder{}, "escrow/MsgCancelOrder", nil)
	cdc.RegisterConcrete(&MsgFillOrder{}, "escrow/MsgFillOrder", nil)
	cdc.RegisterConcrete(&MsgFillOrderWithOther{}, "escrow/MsgFillOrderWithOther", nil)
	cdc.RegisterConcrete(&MsgDispatchFillOrder{}, "escrow/MsgDispatchFillOrder", nil)
}

// RegisterInterfaces registers the module's interfaces with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateOrder{},
		&MsgCancelOrder{},
		&MsgFillOrder{},
		&MsgFillOrderWithOther{},
		&MsgDispatchFillOrder{},
	)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
