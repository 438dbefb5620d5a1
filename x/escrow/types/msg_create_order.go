package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

var _ sdk.Msg = &MsgCreateOrder{}

// MsgCreateOrder defines a message to create a new escrow order. Payment is
// the attached value taken into escrow; Price is the counter-asset the owner
// requires in return.
type MsgCreateOrder struct {
	Creator string      `json:"creator"`
	Payment AssetAmount `json:"payment"`
	Price   AssetAmount `json:"price"`
}

// NewMsgCreateOrder creates a new MsgCreateOrder instance
func NewMsgCreateOrder(creator string, payment, price AssetAmount) *MsgCreateOrder {
	return &MsgCreateOrder{
		Creator: creator,
		Payment: payment,
		Price:   price,
	}
}

// Route implements the sdk.Msg interface
func (msg MsgCreateOrder) Route() string {
	return RouterKey
}

// Type implements the sdk.Msg interface
func (msg MsgCreateOrder) Type() string {
	return "create_order"
}

// GetSigners implements the sdk.Msg interface
func (msg MsgCreateOrder) GetSigners() []sdk.AccAddress {
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{creator}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgCreateOrder) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgCreateOrder) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidOrder, "invalid creator address: %s", err)
	}

	if err := msg.Payment.Validate(); err != nil {
		return sdkerrors.Wrap(err, "invalid payment")
	}

	if err := msg.Price.Validate(); err != nil {
		return sdkerrors.Wrap(err, "invalid price")
	}

	return nil
}
