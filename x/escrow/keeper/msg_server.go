package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the escrow MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateOrder handles the creation of a new escrow order
func (ms msgServer) CreateOrder(goCtx context.Context, msg *types.MsgCreateOrder) (*types.MsgCreateOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CreateOrder: validate: %w", err)
	}

	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder: invalid creator address: %w", err)
	}

	orderID, err := ms.Keeper.CreateOrder(goCtx, creator, msg.Payment, msg.Price)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder: %w", err)
	}

	return &types.MsgCreateOrderResponse{
		OrderId: orderID,
	}, nil
}

// CancelOrder handles cancellation of an active order
func (ms msgServer) CancelOrder(goCtx context.Context, msg *types.MsgCancelOrder) (*types.MsgCancelOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelOrder: validate: %w", err)
	}

	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CancelOrder: invalid creator address: %w", err)
	}

	if err := ms.Keeper.CancelOrder(goCtx, creator, msg.OrderId); err != nil {
		return nil, fmt.Errorf("CancelOrder: %w", err)
	}

	return &types.MsgCancelOrderResponse{}, nil
}

// FillOrder handles a direct fill with an attached payment
func (ms msgServer) FillOrder(goCtx context.Context, msg *types.MsgFillOrder) (*types.MsgFillOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("FillOrder: validate: %w", err)
	}

	filler, err := sdk.AccAddressFromBech32(msg.Filler)
	if err != nil {
		return nil, fmt.Errorf("FillOrder: invalid filler address: %w", err)
	}

	if err := ms.Keeper.FillOrder(goCtx, filler, msg.OrderId, msg.Payment); err != nil {
		return nil, fmt.Errorf("FillOrder: %w", err)
	}

	return &types.MsgFillOrderResponse{}, nil
}

// FillOrderWithOther handles a composite fill against a same-chain counterparty order
func (ms msgServer) FillOrderWithOther(goCtx context.Context, msg *types.MsgFillOrderWithOther) (*types.MsgFillOrderWithOtherResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("FillOrderWithOther: validate: %w", err)
	}

	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, fmt.Errorf("FillOrderWithOther: invalid caller address: %w", err)
	}

	received, refunded, err := ms.Keeper.FillOrderWithOther(goCtx, caller, msg.OrderId, msg.OtherAddress, msg.OtherOrderId, msg.OtherPrice)
	if err != nil {
		return nil, fmt.Errorf("FillOrderWithOther: %w", err)
	}

	return &types.MsgFillOrderWithOtherResponse{
		Received: received,
		Refunded: refunded,
	}, nil
}

// DispatchFillOrder handles a composite fill against an order on a remote chain
func (ms msgServer) DispatchFillOrder(goCtx context.Context, msg *types.MsgDispatchFillOrder) (*types.MsgDispatchFillOrderResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("DispatchFillOrder: validate: %w", err)
	}

	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, fmt.Errorf("DispatchFillOrder: invalid caller address: %w", err)
	}

	sequence, err := ms.Keeper.DispatchFillOrder(goCtx, caller, msg.OrderId, msg.SourceChannel, msg.RemoteOrderId, msg.OtherPrice)
	if err != nil {
		return nil, fmt.Errorf("DispatchFillOrder: %w", err)
	}

	return &types.MsgDispatchFillOrderResponse{
		Sequence: sequence,
	}, nil
}
