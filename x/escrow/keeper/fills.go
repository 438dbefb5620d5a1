package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

var _ types.OrderFiller = Keeper{}

// FillOrder settles an active order with an attached payment from the filler.
//
// The payment must be the order's price kind and at least the price amount.
// The full attached amount is forwarded to the owner: any surplus above the
// price belongs to the owner, not the filler.
//
// Behavior:
//  1. Validates the order is active and the payment covers the price
//  2. Takes the attached payment into the module account
//  3. Releases the escrowed order payment to the filler
//  4. Forwards the full attached payment to the order owner
//  5. Marks the order filled and emits order_filled
func (k Keeper) FillOrder(ctx context.Context, filler sdk.AccAddress, orderID uint64, payment types.AssetAmount) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != types.OrderStatusActive {
		return types.ErrAlreadyFinalized.Wrapf("order %d is %s", orderID, order.Status)
	}

	if !payment.SameKind(order.Price) {
		return types.ErrAssetMismatch.Wrapf("order %d requires %s, got %s", orderID, order.Price.BankDenom(), payment.BankDenom())
	}

	if payment.Amount.LT(order.Price.Amount) {
		return types.ErrInsufficientPayment.Wrapf("order %d requires %s, got %s", orderID, order.Price, payment)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(order.Owner)
	if err != nil {
		return types.ErrInvalidState.Wrapf("invalid owner address: %v", err)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, filler, types.ModuleName, payment.Coins()); err != nil {
		return types.ErrInsufficientPayment.Wrapf("failed to collect payment: %v", err)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, filler, order.Payment.Coins()); err != nil {
		return types.ErrInvalidState.Wrapf("failed to release escrow: %v", err)
	}

	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, payment.Coins()); err != nil {
		return types.ErrInvalidState.Wrapf("failed to forward payment: %v", err)
	}

	order.Status = types.OrderStatusFilled
	if err := k.SetOrder(ctx, order); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderFilled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
			sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			sdk.NewAttribute(types.AttributeKeyCaller, filler.String()),
			sdk.NewAttribute(types.AttributeKeyPayment, payment.String()),
		),
	)

	return nil
}
