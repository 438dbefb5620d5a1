package ibc

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// ChannelCapabilityManager is the slice of the scoped keeper handshake
// handlers need to claim channel capabilities.
type ChannelCapabilityManager interface {
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// ChannelValidator checks the fixed handshake parameters an application
// module expects on every channel bound to its port.
type ChannelValidator struct {
	order   channeltypes.Order
	version string
	portID  string
}

// NewChannelValidator creates a validator pinned to the given ordering,
// version and port
func NewChannelValidator(order channeltypes.Order, version string, portID string) *ChannelValidator {
	return &ChannelValidator{
		order:   order,
		version: version,
		portID:  portID,
	}
}

// ValidateInit checks OnChanOpenInit parameters
func (v *ChannelValidator) ValidateInit(order channeltypes.Order, portID, version string) error {
	if order != v.order {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", v.order, order)
	}
	if version != v.version {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidVersion,
			"expected version %s, got %s", v.version, version)
	}
	if portID != v.portID {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", v.portID, portID)
	}
	return nil
}

// ValidateTry checks OnChanOpenTry parameters
func (v *ChannelValidator) ValidateTry(order channeltypes.Order, counterpartyVersion string) error {
	if order != v.order {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", v.order, order)
	}
	return v.ValidateAck(counterpartyVersion)
}

// ValidateAck checks the counterparty version reported on OnChanOpenAck
func (v *ChannelValidator) ValidateAck(counterpartyVersion string) error {
	if counterpartyVersion != v.version {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidVersion,
			"invalid counterparty version: expected %s, got %s", v.version, counterpartyVersion)
	}
	return nil
}

// ClaimChannelCapability claims the capability for a freshly opened channel
// under the standard capability path
func ClaimChannelCapability(
	ctx sdk.Context,
	capManager ChannelCapabilityManager,
	chanCap *capabilitytypes.Capability,
	portID string,
	channelID string,
) error {
	if err := capManager.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}

// EmitChannelOpenEvent emits a channel open event with counterparty attributes
func EmitChannelOpenEvent(ctx sdk.Context, eventType, channelID, portID string, counterparty channeltypes.Counterparty) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("counterparty_port_id", counterparty.PortId),
			sdk.NewAttribute("counterparty_channel_id", counterparty.ChannelId),
		),
	)
}

// EmitChannelOpenAckEvent emits a channel open acknowledgement event
func EmitChannelOpenAckEvent(ctx sdk.Context, eventType, channelID, portID, counterpartyChannelID string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
			sdk.NewAttribute("counterparty_channel_id", counterpartyChannelID),
		),
	)
}

// EmitChannelEvent emits a bare channel lifecycle event
func EmitChannelEvent(ctx sdk.Context, eventType, channelID, portID string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("port_id", portID),
		),
	)
}

// EmitPacketReceiveEvent emits a packet receive event
func EmitPacketReceiveEvent(ctx sdk.Context, eventType, packetType, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("packet_type", packetType),
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("sequence", fmt.Sprintf("%d", sequence)),
		),
	)
}

// EmitPacketAckEvent emits a packet acknowledgement event
func EmitPacketAckEvent(ctx sdk.Context, eventType, channelID string, sequence uint64, success bool) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("sequence", fmt.Sprintf("%d", sequence)),
			sdk.NewAttribute("ack_success", fmt.Sprintf("%t", success)),
		),
	)
}

// EmitPacketTimeoutEvent emits a packet timeout event
func EmitPacketTimeoutEvent(ctx sdk.Context, eventType, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute("channel_id", channelID),
			sdk.NewAttribute("sequence", fmt.Sprintf("%d", sequence)),
		),
	)
}

// DisallowUserChannelClose rejects user-initiated channel closure. Closing a
// channel strands the in-flight work routed over it.
func DisallowUserChannelClose() error {
	return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "user cannot close channel")
}
