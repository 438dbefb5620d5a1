package types

import (
	"encoding/json"

	"cosmossdk.io/errors"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
)

// IBC packet types for the escrow module.
//
// Packets are serialized as JSON for IBC transmission. The acknowledgement is
// the only channel through which the outcome of a dispatched fill reaches the
// initiating chain; the dispatching call itself never observes the result.

const (
	// IBCVersion is the escrow channel version string
	IBCVersion = "arcadia-escrow-1"

	// FillOrderType is the packet type discriminator for fill requests
	FillOrderType = "fill_order"
)

// IBCPacketData is the base interface for escrow IBC packets
type IBCPacketData interface {
	ValidateBasic() error
	GetType() string
}

// FillOrderPacketData requests the fill of an order on the receiving chain,
// paying with the attached asset quantity. Sender is the bech32 address of
// the initiating caller on the sending chain, recorded for traceability only.
type FillOrderPacketData struct {
	Type    string      `json:"type"`
	OrderId uint64      `json:"order_id"`
	Payment AssetAmount `json:"payment"`
	Sender  string      `json:"sender"`
}

// NewFillOrderPacket creates a new fill order packet
func NewFillOrderPacket(orderID uint64, payment AssetAmount, sender string) FillOrderPacketData {
	return FillOrderPacketData{
		Type:    FillOrderType,
		OrderId: orderID,
		Payment: payment,
		Sender:  sender,
	}
}

func (p FillOrderPacketData) ValidateBasic() error {
	if p.Type != FillOrderType {
		return errors.Wrapf(ErrInvalidPacket, "invalid packet type: %s", p.Type)
	}
	if p.OrderId == 0 {
		return errors.Wrap(ErrInvalidPacket, "order id must be positive")
	}
	if err := p.Payment.Validate(); err != nil {
		return errors.Wrapf(ErrInvalidPacket, "invalid payment: %v", err)
	}
	if p.Sender == "" {
		return errors.Wrap(ErrInvalidPacket, "sender cannot be empty")
	}
	return nil
}

func (p FillOrderPacketData) GetType() string {
	return p.Type
}

func (p FillOrderPacketData) GetBytes() ([]byte, error) {
	return json.Marshal(p)
}

// FillOrderAcknowledgement is the response to a fill order packet. On success
// Payment carries the asset quantity released by the remote order's escrow.
type FillOrderAcknowledgement struct {
	Result  bool        `json:"success"`
	Payment AssetAmount `json:"payment,omitempty"`
	Error   string      `json:"error,omitempty"`
}

var _ ibcexported.Acknowledgement = FillOrderAcknowledgement{}

// NewFillOrderSuccessAck creates a success acknowledgement carrying the
// released escrow
func NewFillOrderSuccessAck(payment AssetAmount) FillOrderAcknowledgement {
	return FillOrderAcknowledgement{Result: true, Payment: payment}
}

// NewFillOrderErrorAck creates a failure acknowledgement
func NewFillOrderErrorAck(err error) FillOrderAcknowledgement {
	return FillOrderAcknowledgement{Result: false, Error: err.Error()}
}

// Success implements ibcexported.Acknowledgement
func (a FillOrderAcknowledgement) Success() bool {
	return a.Result
}

// Acknowledgement implements ibcexported.Acknowledgement
func (a FillOrderAcknowledgement) Acknowledgement() []byte {
	bz, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return bz
}

// ParseFillOrderAcknowledgement parses acknowledgement bytes
func ParseFillOrderAcknowledgement(bz []byte) (FillOrderAcknowledgement, error) {
	var ack FillOrderAcknowledgement
	if err := json.Unmarshal(bz, &ack); err != nil {
		return ack, errors.Wrapf(ErrInvalidPacket, "failed to unmarshal acknowledgement: %v", err)
	}
	return ack, nil
}

// ParsePacketData parses IBC packet data based on type
func ParsePacketData(data []byte) (IBCPacketData, error) {
	var basePacket struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &basePacket); err != nil {
		return nil, errors.Wrapf(ErrInvalidPacket, "failed to unmarshal packet data: %v", err)
	}

	switch basePacket.Type {
	case FillOrderType:
		var packet FillOrderPacketData
		if err := json.Unmarshal(data, &packet); err != nil {
			return nil, errors.Wrapf(ErrInvalidPacket, "failed to unmarshal fill order packet: %v", err)
		}
		return packet, nil

	default:
		return nil, errors.Wrapf(ErrInvalidPacket, "unknown packet type: %s", basePacket.Type)
	}
}

// PendingFill is the context captured when a cross-chain fill is dispatched.
// It is the only state the acknowledgement callback may rely on: the
// initiating invocation's locals are gone by the time the callback runs.
type PendingFill struct {
	// OrderId is the local order being settled
	OrderId uint64 `json:"order_id"`
	// Caller is the address that initiated the dispatch, owed the unspent
	// escrow refund
	Caller string `json:"caller"`
	// Remaining is the unspent escrow: order payment minus the forwarded price
	Remaining AssetAmount `json:"remaining"`
	// OtherPrice is the quantity forwarded to the remote order as its payment
	OtherPrice AssetAmount `json:"other_price"`
	// ChannelId and Sequence identify the dispatched packet
	ChannelId string `json:"channel_id"`
	Sequence  uint64 `json:"sequence"`
}

// Validate checks structural well-formedness of a pending fill record
func (p PendingFill) Validate() error {
	if p.OrderId == 0 {
		return errors.Wrap(ErrInvalidState, "pending fill order id must be positive")
	}
	if p.Caller == "" {
		return errors.Wrap(ErrInvalidState, "pending fill caller cannot be empty")
	}
	if p.ChannelId == "" {
		return errors.Wrap(ErrInvalidState, "pending fill channel cannot be empty")
	}
	if err := p.OtherPrice.Validate(); err != nil {
		return errors.Wrap(err, "pending fill other price")
	}
	if p.Remaining.Amount.IsNil() || p.Remaining.Amount.IsNegative() {
		return errors.Wrap(ErrInvalidState, "pending fill remaining cannot be negative")
	}
	return nil
}
