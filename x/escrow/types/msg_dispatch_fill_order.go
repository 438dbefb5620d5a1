package types

import (
	"strings"

	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgDispatchFillOrder{}

// MsgDispatchFillOrder defines a message to settle a local order against an
// order on a remote chain. The fill request travels as an IBC packet and the
// local order is only settled when a successful acknowledgement returns.
type MsgDispatchFillOrder struct {
	Caller        string      `json:"caller"`
	OrderId       uint64      `json:"order_id"`
	SourceChannel string      `json:"source_channel"`
	RemoteOrderId uint64      `json:"remote_order_id"`
	OtherPrice    AssetAmount `json:"other_price"`
}

// NewMsgDispatchFillOrder creates a new MsgDispatchFillOrder instance
func NewMsgDispatchFillOrder(caller string, orderID uint64, sourceChannel string, remoteOrderID uint64, otherPrice AssetAmount) *MsgDispatchFillOrder {
	return &MsgDispatchFillOrder{
		Caller:        caller,
		OrderId:       orderID,
		SourceChannel: sourceChannel,
		RemoteOrderId: remoteOrderID,
		OtherPrice:    otherPrice,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgDispatchFillOrder) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgDispatchFillOrder) Type() string {
	return "dispatch_fill_order"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgDispatchFillOrder) GetSigners() []sdk.AccAddress {
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{caller}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDispatchFillOrder) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDispatchFillOrder) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid caller address: %s", err)
	}

	if msg.OrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "order id must be positive")
	}

	if msg.RemoteOrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "remote order id must be positive")
	}

	if !strings.HasPrefix(msg.SourceChannel, "channel-") {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid source channel: %s", msg.SourceChannel)
	}

	if err := msg.OtherPrice.Validate(); err != nil {
		return sdkerrors.Wrap(err, "invalid other price")
	}

	return nil
}
