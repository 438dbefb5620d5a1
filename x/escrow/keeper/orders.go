package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// GetOrderCount returns the number of orders ever created. Order ids are
// dense and 1-based, so this is also the highest assigned id.
func (k Keeper) GetOrderCount(ctx context.Context) uint64 {
	store := k.getStore(ctx)

	bz := store.Get(types.OrderCountKey)
	if bz == nil {
		return 0
	}

	return sdk.BigEndianToUint64(bz)
}

// SetOrderCount stores the order count
func (k Keeper) SetOrderCount(ctx context.Context, count uint64) {
	k.getStore(ctx).Set(types.OrderCountKey, sdk.Uint64ToBigEndian(count))
}

// AppendOrder assigns the next id to the order, stores it and bumps the
// count. Returns the assigned id.
func (k Keeper) AppendOrder(ctx context.Context, order types.Order) (uint64, error) {
	count := k.GetOrderCount(ctx)
	order.Id = count + 1

	if err := k.SetOrder(ctx, order); err != nil {
		return 0, err
	}

	k.SetOrderCount(ctx, order.Id)
	return order.Id, nil
}

// SetOrder stores an order record under its id
func (k Keeper) SetOrder(ctx context.Context, order types.Order) error {
	bz, err := json.Marshal(order)
	if err != nil {
		return types.ErrInvalidState.Wrapf("failed to marshal order: %v", err)
	}

	k.getStore(ctx).Set(types.GetOrderKey(order.Id), bz)
	return nil
}

// GetOrder retrieves an order by id
func (k Keeper) GetOrder(ctx context.Context, orderID uint64) (types.Order, error) {
	store := k.getStore(ctx)

	bz := store.Get(types.GetOrderKey(orderID))
	if bz == nil {
		return types.Order{}, types.ErrOrderNotFound.Wrapf("order not found: %d", orderID)
	}

	var order types.Order
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.Order{}, types.ErrInvalidState.Wrapf("failed to unmarshal order: %v", err)
	}

	return order, nil
}

// GetAllOrders returns every order record in id order
func (k Keeper) GetAllOrders(ctx context.Context) []types.Order {
	count := k.GetOrderCount(ctx)
	orders := make([]types.Order, 0, count)

	for id := uint64(1); id <= count; id++ {
		order, err := k.GetOrder(ctx, id)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	return orders
}

// CreateOrder escrows the owner's payment with the module account and appends
// a new active order. Returns the assigned order id.
func (k Keeper) CreateOrder(ctx context.Context, owner sdk.AccAddress, payment, price types.AssetAmount) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := payment.Validate(); err != nil {
		return 0, err
	}
	if err := price.Validate(); err != nil {
		return 0, err
	}

	params := k.GetParams(ctx)
	if payment.Amount.LT(params.MinOrderAmount) {
		return 0, types.ErrInvalidOrder.Wrapf("payment %s below minimum order amount %s", payment.Amount, params.MinOrderAmount)
	}

	// Take custody before the record exists so a failed transfer leaves no
	// trace of the order.
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, owner, types.ModuleName, payment.Coins()); err != nil {
		return 0, types.ErrInsufficientPayment.Wrapf("failed to escrow payment: %v", err)
	}

	order := types.Order{
		Owner:           owner.String(),
		Payment:         payment,
		Price:           price,
		Status:          types.OrderStatusActive,
		CreatedAtHeight: sdkCtx.BlockHeight(),
	}

	orderID, err := k.AppendOrder(ctx, order)
	if err != nil {
		return 0, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderCreated,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyPayment, payment.String()),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
		),
	)

	return orderID, nil
}

// CancelOrder marks an active order cancelled and refunds its escrowed
// payment to the owner.
//
// The terminal status is committed before the refund is attempted: a fill
// racing with the cancellation must lose, while a failed refund only strands
// funds in the module account where they remain recoverable. The refund
// failure is reported through an event rather than an error so the
// cancellation itself never reverts.
func (k Keeper) CancelOrder(ctx context.Context, caller sdk.AccAddress, orderID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Owner != caller.String() {
		return types.ErrUnauthorized.Wrap("not order owner")
	}

	if order.Status != types.OrderStatusActive {
		return types.ErrAlreadyFinalized.Wrapf("order %d is %s", orderID, order.Status)
	}

	order.Status = types.OrderStatusCancelled
	if err := k.SetOrder(ctx, order); err != nil {
		return err
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, caller, order.Payment.Coins()); err != nil {
		sdkCtx.Logger().Error("failed to refund cancelled order", "order_id", orderID, "error", err)
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeRefundFailed,
				sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
				sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
				sdk.NewAttribute(types.AttributeKeyReason, err.Error()),
			),
		)
		return nil
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderCancelled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
			sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			sdk.NewAttribute(types.AttributeKeyRefunded, order.Payment.String()),
		),
	)

	return nil
}
