package types

import (
	"context"
)

// MsgServer defines the message server interface
type MsgServer interface {
	CreateOrder(context.Context, *MsgCreateOrder) (*MsgCreateOrderResponse, error)
	CancelOrder(context.Context, *MsgCancelOrder) (*MsgCancelOrderResponse, error)
	FillOrder(context.Context, *MsgFillOrder) (*MsgFillOrderResponse, error)
	FillOrderWithOther(context.Context, *MsgFillOrderWithOther) (*MsgFillOrderWithOtherResponse, error)
	DispatchFillOrder(context.Context, *MsgDispatchFillOrder) (*MsgDispatchFillOrderResponse, error)
}

// Response types

// MsgCreateOrderResponse defines the response for CreateOrder
type MsgCreateOrderResponse struct {
	OrderId uint64 `json:"order_id"`
}

// MsgCancelOrderResponse defines the response for CancelOrder
type MsgCancelOrderResponse struct{}

// MsgFillOrderResponse defines the response for FillOrder
type MsgFillOrderResponse struct{}

// MsgFillOrderWithOtherResponse defines the response for FillOrderWithOther
type MsgFillOrderWithOtherResponse struct {
	Received AssetAmount `json:"received"`
	Refunded AssetAmount `json:"refunded"`
}

// MsgDispatchFillOrderResponse defines the response for DispatchFillOrder
type MsgDispatchFillOrderResponse struct {
	Sequence uint64 `json:"sequence"`
}
