package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgFillOrderWithOther{}

// MsgFillOrderWithOther defines a message to settle an order using the escrow
// of a counterparty order instead of an attached payment. OtherAddress names
// the counterparty holding the other order; empty or equal to the module's
// own address means the other order is local.
type MsgFillOrderWithOther struct {
	Caller       string      `json:"caller"`
	OrderId      uint64      `json:"order_id"`
	OtherAddress string      `json:"other_address"`
	OtherOrderId uint64      `json:"other_order_id"`
	OtherPrice   AssetAmount `json:"other_price"`
}

// NewMsgFillOrderWithOther creates a new MsgFillOrderWithOther instance
func NewMsgFillOrderWithOther(caller string, orderID uint64, otherAddress string, otherOrderID uint64, otherPrice AssetAmount) *MsgFillOrderWithOther {
	return &MsgFillOrderWithOther{
		Caller:       caller,
		OrderId:      orderID,
		OtherAddress: otherAddress,
		OtherOrderId: otherOrderID,
		OtherPrice:   otherPrice,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgFillOrderWithOther) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgFillOrderWithOther) Type() string {
	return "fill_order_with_other"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgFillOrderWithOther) GetSigners() []sdk.AccAddress {
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{caller}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgFillOrderWithOther) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgFillOrderWithOther) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid caller address: %s", err)
	}

	if msg.OrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "order id must be positive")
	}

	if msg.OtherOrderId == 0 {
		return sdkerrors.Wrap(ErrInvalidOrder, "other order id must be positive")
	}

	if err := msg.OtherPrice.Validate(); err != nil {
		return sdkerrors.Wrap(err, "invalid other price")
	}

	return nil
}
