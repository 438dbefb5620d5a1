package escrow

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	commonibc "github.com/arcadia-chain/arcadia/pkg/ibc"
	"github.com/arcadia-chain/arcadia/x/escrow/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

var (
	_ porttypes.IBCModule = (*IBCModule)(nil)
)

// IBCModule implements the ICS26 interface for the escrow module.
// It carries cross-chain fill requests and their settlement acknowledgements.
type IBCModule struct {
	keeper    keeper.Keeper
	cdc       codec.Codec
	validator *commonibc.ChannelValidator
}

// NewIBCModule creates a new IBCModule given the keeper and codec
func NewIBCModule(keeper keeper.Keeper, cdc codec.Codec) IBCModule {
	return IBCModule{
		keeper: keeper,
		cdc:    cdc,
		// Fills are independent requests, so unordered channels are fine
		validator: commonibc.NewChannelValidator(channeltypes.UNORDERED, types.IBCVersion, types.PortID),
	}
}

// OnChanOpenInit implements the IBCModule interface
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	if err := im.validator.ValidateInit(order, portID, version); err != nil {
		return "", err
	}

	if err := commonibc.ClaimChannelCapability(ctx, im.keeper, chanCap, portID, channelID); err != nil {
		return "", err
	}

	commonibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty)

	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	if err := im.validator.ValidateTry(order, counterpartyVersion); err != nil {
		return "", err
	}

	if err := commonibc.ClaimChannelCapability(ctx, im.keeper, chanCap, portID, channelID); err != nil {
		return "", err
	}

	commonibc.EmitChannelOpenEvent(ctx, types.EventTypeChannelOpen, channelID, portID, counterparty)

	return types.IBCVersion, nil
}

// OnChanOpenAck implements the IBCModule interface
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.validator.ValidateAck(counterpartyVersion); err != nil {
		return err
	}

	commonibc.EmitChannelOpenAckEvent(ctx, types.EventTypeChannelOpenAck, channelID, portID, counterpartyChannelID)

	return nil
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	commonibc.EmitChannelEvent(ctx, types.EventTypeChannelOpenConfirm, channelID, portID)
	return nil
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	// Closing a channel would strand pending fills on it
	return commonibc.DisallowUserChannelClose()
}

// OnChanCloseConfirm implements the IBCModule interface
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	commonibc.EmitChannelEvent(ctx, types.EventTypeChannelClose, channelID, portID)
	return nil
}

// OnRecvPacket implements the IBCModule interface.
// Handles incoming fill requests for local orders. State writes happen on a
// cached context committed only when the fill succeeds, so a failed
// acknowledgement reports a chain untouched by the request.
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	packetData, err := types.ParsePacketData(packet.Data)
	if err != nil {
		return types.NewFillOrderErrorAck(
			errorsmod.Wrapf(types.ErrInvalidPacket, "failed to parse packet data: %s", err.Error()))
	}

	if err := packetData.ValidateBasic(); err != nil {
		return types.NewFillOrderErrorAck(errorsmod.Wrap(types.ErrInvalidPacket, err.Error()))
	}

	var ack ibcexported.Acknowledgement
	switch data := packetData.(type) {
	case types.FillOrderPacketData:
		cacheCtx, writeCache := ctx.CacheContext()
		released, err := im.keeper.OnRecvFillPacket(cacheCtx, packet, data)
		if err != nil {
			ack = types.NewFillOrderErrorAck(err)
		} else {
			writeCache()
			ack = types.NewFillOrderSuccessAck(released)
		}

	default:
		return types.NewFillOrderErrorAck(
			errorsmod.Wrapf(types.ErrInvalidPacket, "unknown packet type: %s", packetData.GetType()))
	}

	commonibc.EmitPacketReceiveEvent(ctx, types.EventTypePacketReceive, packetData.GetType(), packet.DestinationChannel, packet.Sequence)

	return ack
}

// OnAcknowledgementPacket implements the IBCModule interface.
// Resumes the dispatched fill captured for the acknowledged packet.
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	ack, err := types.ParseFillOrderAcknowledgement(acknowledgement)
	if err != nil {
		return errorsmod.Wrapf(sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}

	if err := im.keeper.OnAcknowledgementFillPacket(ctx, packet, ack); err != nil {
		return err
	}

	commonibc.EmitPacketAckEvent(ctx, types.EventTypePacketAck, packet.SourceChannel, packet.Sequence, ack.Success())

	return nil
}

// OnTimeoutPacket implements the IBCModule interface.
// Abandons the pending fill so the order can be dispatched again.
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	if err := im.keeper.OnTimeoutFillPacket(ctx, packet); err != nil {
		return err
	}

	commonibc.EmitPacketTimeoutEvent(ctx, types.EventTypePacketTimeout, packet.SourceChannel, packet.Sequence)

	return nil
}
