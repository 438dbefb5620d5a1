package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgFillOrder{}

// MsgFillOrder defines a message to fill an active order directly. Payment is
// the attached value; the full attached amount passes to the order owner even
// when it exceeds the required price.
type MsgFillOrder struct {
	Filler  string      `json:"filler"`
	OrderId uint64      `json:"order_id"`
	Payment AssetAmount `json:"payment"`
}

// NewMsgFillOrder creates a new MsgFillOrder instance
func NewMsgFillOrder(filler string, orderID uint64, payment AssetAmount) *MsgFillOrder {
	return &MsgFillOrder{
		Filler:  filler,
		OrderId: orderID,
		Payment: payment,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgFillOrder) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgFillOrder) Type() string {
	return "fill_order"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgFillOrder) GetSigners() []sdk.AccAddress {
	filler, err := sdk.AccAddressFromBech32(msg.Filler)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{filler}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgFillOrder) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgFillOrder) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Filler); err != nil {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid filler address: %s", err)
	}

	if msg.OrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "order id must be positive")
	}

	if err := msg.Payment.Validate(); err != nil {
		return sdkerrors.Wrap(err, "invalid payment")
	}

	return nil
}
