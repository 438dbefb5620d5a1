package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// ============================================================================
// Pending Fill Store
// ============================================================================

// SetPendingFill stores the captured context of a dispatched fill, keyed by
// the packet that carries it
func (k Keeper) SetPendingFill(ctx context.Context, pending types.PendingFill) error {
	bz, err := json.Marshal(pending)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal pending fill: %v", err)
	}

	k.getStore(ctx).Set(types.GetPendingFillKey(pending.ChannelId, pending.Sequence), bz)
	return nil
}

// GetPendingFill retrieves the pending fill for a packet, if any
func (k Keeper) GetPendingFill(ctx context.Context, channelID string, sequence uint64) (types.PendingFill, bool) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetPendingFillKey(channelID, sequence))
	if bz == nil {
		return types.PendingFill{}, false
	}

	var pending types.PendingFill
	if err := json.Unmarshal(bz, &pending); err != nil {
		return types.PendingFill{}, false
	}

	return pending, true
}

// DeletePendingFill removes the pending fill for a packet
func (k Keeper) DeletePendingFill(ctx context.Context, channelID string, sequence uint64) {
	k.getStore(ctx).Delete(types.GetPendingFillKey(channelID, sequence))
}

// GetAllPendingFills returns every pending fill record
func (k Keeper) GetAllPendingFills(ctx context.Context) []types.PendingFill {
	store := k.getStore(ctx)
	var pending []types.PendingFill

	iterator := storetypes.KVStorePrefixIterator(store, types.PendingFillKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pf types.PendingFill
		if err := json.Unmarshal(iterator.Value(), &pf); err != nil {
			continue
		}
		pending = append(pending, pf)
	}

	return pending
}

// ============================================================================
// Dispatch
// ============================================================================

// DispatchFillOrder settles a local order against an order on a remote chain.
//
// The fill request leaves as an IBC packet and the call returns as soon as the
// packet is committed; nothing about the local order changes yet. The order
// stays active, its escrow stays put, and the captured settlement context is
// persisted as a PendingFill so the acknowledgement handler can resume where
// this call left off. Settlement, refund and the status transition all happen
// in OnAcknowledgementFillPacket.
//
// Returns the packet sequence assigned by the channel.
func (k Keeper) DispatchFillOrder(
	ctx context.Context,
	caller sdk.AccAddress,
	orderID uint64,
	sourceChannel string,
	remoteOrderID uint64,
	otherPrice types.AssetAmount,
) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	if order.Status != types.OrderStatusActive {
		return 0, types.ErrAlreadyFinalized.Wrapf("order %d is %s", orderID, order.Status)
	}

	if !otherPrice.SameKind(order.Payment) {
		return 0, types.ErrAssetMismatch.Wrapf(
			"other price %s must be the escrowed asset %s", otherPrice.BankDenom(), order.Payment.BankDenom())
	}

	diff := order.Payment.Amount.Sub(otherPrice.Amount)
	if diff.IsNegative() {
		return 0, types.ErrOverdraftAttempt.Wrapf(
			"other price %s exceeds escrowed payment %s", otherPrice, order.Payment)
	}

	params := k.GetParams(ctx)
	if !params.IsChannelAuthorized(types.PortID, sourceChannel) {
		return 0, types.ErrChannelNotAuthorized.Wrapf("channel %s is not authorized for fills", sourceChannel)
	}

	chanCap, ok := k.GetChannelCapability(sdkCtx, types.PortID, sourceChannel)
	if !ok {
		return 0, types.ErrChannelNotAuthorized.Wrapf("no capability for channel %s", sourceChannel)
	}

	packet := types.NewFillOrderPacket(remoteOrderID, otherPrice, caller.String())
	packetBz, err := packet.GetBytes()
	if err != nil {
		return 0, types.ErrInvalidPacket.Wrapf("failed to marshal packet: %v", err)
	}

	timeoutTimestamp := uint64(sdkCtx.BlockTime().Add(time.Duration(params.FillTimeoutSeconds) * time.Second).UnixNano())

	sequence, err := k.channelKeeper.SendPacket(
		sdkCtx,
		chanCap,
		types.PortID,
		sourceChannel,
		clienttypes.ZeroHeight(),
		timeoutTimestamp,
		packetBz,
	)
	if err != nil {
		return 0, err
	}

	pending := types.PendingFill{
		OrderId:    orderID,
		Caller:     caller.String(),
		Remaining:  order.Payment.WithAmount(diff),
		OtherPrice: otherPrice,
		ChannelId:  sourceChannel,
		Sequence:   sequence,
	}
	if err := k.SetPendingFill(ctx, pending); err != nil {
		return 0, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFillDispatched,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
			sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
			sdk.NewAttribute(types.AttributeKeyRemoteOrderID, fmt.Sprintf("%d", remoteOrderID)),
			sdk.NewAttribute(types.AttributeKeyChannelID, sourceChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", sequence)),
		),
	)

	return sequence, nil
}

// ============================================================================
// Packet Handlers
// ============================================================================

// OnRecvFillPacket handles an incoming fill request for a local order.
//
// The transport layer must have credited the packet's payment to the module
// account before this runs; the forward to the owner draws on that credit. If
// the credit is missing the transfer fails when the module lacks the denom,
// and when the module holds other orders' coins in the same denom it would
// spend their escrow instead, tripping the solvency invariant. The released
// order payment moves to the channel escrow address so the transport can
// represent it on the sending chain, and the acknowledgement reports it so
// the sender knows what was released. Any error here becomes a failed
// acknowledgement and the sending chain sees no effect.
func (k Keeper) OnRecvFillPacket(ctx context.Context, packet channeltypes.Packet, data types.FillOrderPacketData) (types.AssetAmount, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := data.ValidateBasic(); err != nil {
		return types.AssetAmount{}, err
	}

	order, err := k.GetOrder(ctx, data.OrderId)
	if err != nil {
		return types.AssetAmount{}, err
	}

	if order.Status != types.OrderStatusActive {
		return types.AssetAmount{}, types.ErrAlreadyFinalized.Wrapf("order %d is %s", data.OrderId, order.Status)
	}

	if !data.Payment.SameKind(order.Price) {
		return types.AssetAmount{}, types.ErrAssetMismatch.Wrapf(
			"order %d requires %s, got %s", data.OrderId, order.Price.BankDenom(), data.Payment.BankDenom())
	}

	if data.Payment.Amount.LT(order.Price.Amount) {
		return types.AssetAmount{}, types.ErrInsufficientPayment.Wrapf(
			"order %d requires %s, got %s", data.OrderId, order.Price, data.Payment)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(order.Owner)
	if err != nil {
		return types.AssetAmount{}, types.ErrInvalidState.Wrapf("invalid owner address: %v", err)
	}

	escrowAddr := transfertypes.GetEscrowAddress(packet.DestinationPort, packet.DestinationChannel)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, escrowAddr, order.Payment.Coins()); err != nil {
		return types.AssetAmount{}, types.ErrInvalidState.Wrapf("failed to release escrow: %v", err)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, data.Payment.Coins()); err != nil {
		return types.AssetAmount{}, types.ErrInvalidState.Wrapf("failed to forward payment: %v", err)
	}

	order.Status = types.OrderStatusFilled
	if err := k.SetOrder(ctx, order); err != nil {
		return types.AssetAmount{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderFilled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", data.OrderId)),
			sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			sdk.NewAttribute(types.AttributeKeyCaller, data.Sender),
			sdk.NewAttribute(types.AttributeKeyPayment, data.Payment.String()),
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.DestinationChannel),
		),
	)

	return order.Payment, nil
}

// OnAcknowledgementFillPacket resumes a dispatched fill from its captured
// context once the remote outcome is known.
//
// A failed or underpaying acknowledgement leaves the order active with its
// escrow intact; only the pending record is consumed, so the same packet can
// never settle twice. A successful acknowledgement performs the settlement
// the dispatch deferred: the spent escrow moves to the channel escrow
// address, the unspent remainder refunds the original caller, the released
// remote assets go to the owner and the order becomes filled. The owner's leg
// draws on the transport credit for ack.Payment, with the same wiring
// dependency as OnRecvFillPacket: absent that credit the transfer fails or
// spends other orders' escrow in the same denom.
//
// If the order was cancelled while the packet was in flight the
// acknowledgement is dropped without effect. The owner already holds the
// refund; the remote chain keeps what its own fill released.
func (k Keeper) OnAcknowledgementFillPacket(ctx context.Context, packet channeltypes.Packet, ack types.FillOrderAcknowledgement) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pending, found := k.GetPendingFill(ctx, packet.SourceChannel, packet.Sequence)
	if !found {
		return nil
	}
	k.DeletePendingFill(ctx, packet.SourceChannel, packet.Sequence)

	order, err := k.GetOrder(ctx, pending.OrderId)
	if err != nil {
		sdkCtx.Logger().Error("pending fill references missing order", "order_id", pending.OrderId, "error", err)
		return nil
	}

	if order.Status != types.OrderStatusActive {
		return nil
	}

	if !ack.Success() {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFillAborted,
				sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", pending.OrderId)),
				sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
				sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
				sdk.NewAttribute(types.AttributeKeyReason, ack.Error),
			),
		)
		return nil
	}

	if !ack.Payment.SameKind(order.Price) || ack.Payment.Amount.LT(order.Price.Amount) {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeFillAborted,
				sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", pending.OrderId)),
				sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
				sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
				sdk.NewAttribute(types.AttributeKeyReason, fmt.Sprintf("released %s does not cover price %s", ack.Payment, order.Price)),
			),
		)
		return nil
	}

	callerAddr, err := sdk.AccAddressFromBech32(pending.Caller)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid pending fill caller: %v", err)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(order.Owner)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid owner address: %v", err)
	}

	escrowAddr := transfertypes.GetEscrowAddress(packet.SourcePort, packet.SourceChannel)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, escrowAddr, pending.OtherPrice.Coins()); err != nil {
		return types.ErrInvalidState.Wrapf("failed to move spent escrow: %v", err)
	}

	if pending.Remaining.Amount.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, callerAddr, pending.Remaining.Coins()); err != nil {
			return types.ErrInvalidState.Wrapf("failed to refund unspent escrow: %v", err)
		}
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, ack.Payment.Coins()); err != nil {
		return types.ErrInvalidState.Wrapf("failed to forward settlement: %v", err)
	}

	order.Status = types.OrderStatusFilled
	if err := k.SetOrder(ctx, order); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFillSettled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", pending.OrderId)),
			sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			sdk.NewAttribute(types.AttributeKeyCaller, pending.Caller),
			sdk.NewAttribute(types.AttributeKeyReceived, ack.Payment.String()),
			sdk.NewAttribute(types.AttributeKeyRefunded, pending.Remaining.String()),
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		),
	)

	return nil
}

// OnTimeoutFillPacket abandons a dispatched fill whose packet never arrived.
// The order stays active with its escrow intact and can be dispatched again.
func (k Keeper) OnTimeoutFillPacket(ctx context.Context, packet channeltypes.Packet) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	pending, found := k.GetPendingFill(ctx, packet.SourceChannel, packet.Sequence)
	if !found {
		return nil
	}
	k.DeletePendingFill(ctx, packet.SourceChannel, packet.Sequence)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFillTimeout,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", pending.OrderId)),
			sdk.NewAttribute(types.AttributeKeyCaller, pending.Caller),
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		),
	)

	return nil
}
