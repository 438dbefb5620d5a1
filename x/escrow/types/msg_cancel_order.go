package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgCancelOrder{}

// MsgCancelOrder defines a message to cancel an active order and release its
// escrowed payment back to the owner
type MsgCancelOrder struct {
	Creator string `json:"creator"`
	OrderId uint64 `json:"order_id"`
}

// NewMsgCancelOrder creates a new MsgCancelOrder instance
func NewMsgCancelOrder(creator string, orderID uint64) *MsgCancelOrder {
	return &MsgCancelOrder{
		Creator: creator,
		OrderId: orderID,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCancelOrder) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCancelOrder) Type() string {
	return "cancel_order"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCancelOrder) GetSigners() []sdk.AccAddress {
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{creator}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCancelOrder) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCancelOrder) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid creator address: %s", err)
	}

	if msg.OrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "order id must be positive")
	}

	return nil
}
