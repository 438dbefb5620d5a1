package types

// Event types for the escrow module
const (
	EventTypeOrderCreated   = "order_created"
	EventTypeOrderCancelled = "order_cancelled"
	EventTypeOrderFilled    = "order_filled"
	EventTypeFillDispatched = "fill_dispatched"
	EventTypeFillSettled    = "fill_settled"
	EventTypeFillAborted    = "fill_aborted"
	EventTypeFillTimeout    = "fill_timeout"
	EventTypeRefundFailed   = "refund_failed"

	// IBC channel lifecycle events
	EventTypeChannelOpen        = "channel_open"
	EventTypeChannelOpenAck     = "channel_open_ack"
	EventTypeChannelOpenConfirm = "channel_open_confirm"
	EventTypeChannelClose       = "channel_close"
	EventTypePacketReceive      = "packet_receive"
	EventTypePacketAck          = "packet_ack"
	EventTypePacketTimeout      = "packet_timeout"
)

// Event attribute keys
const (
	AttributeKeyOrderID               = "order_id"
	AttributeKeyOwner                 = "owner"
	AttributeKeyCaller                = "caller"
	AttributeKeyPayment               = "payment"
	AttributeKeyPrice                 = "price"
	AttributeKeyReceived              = "received"
	AttributeKeyRefunded              = "refunded"
	AttributeKeyReason                = "reason"
	AttributeKeyRemoteOrderID         = "remote_order_id"
	AttributeKeyChannelID             = "channel_id"
	AttributeKeyPortID                = "port_id"
	AttributeKeySequence              = "sequence"
	AttributeKeyCounterpartyPortID    = "counterparty_port_id"
	AttributeKeyCounterpartyChannelID = "counterparty_channel_id"
	AttributeKeyPacketType            = "packet_type"
	AttributeKeyAckSuccess            = "ack_success"
)
