package keeper

import (
	"context"
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// FillOrderWithOther settles an order against a counterparty order instead of
// an attached payment: the engine spends otherPrice out of the order's own
// escrow to fill the counterparty order, and what that fill releases pays the
// order's owner.
//
// The counterparty is addressed by otherAddress. An empty address or the
// module's own address selects an order in the local store. A registered
// settlement venue is invoked through its OrderFiller capability, and the
// amount it released is measured by differencing the module's balance in the
// order's price denomination around the call. Channel identifiers are
// rejected here: a cross-chain venue cannot answer within the transaction, so
// those fills must go through DispatchFillOrder.
//
// Returns the amount received for the owner and the unspent escrow refunded
// to the caller.
func (k Keeper) FillOrderWithOther(
	ctx context.Context,
	caller sdk.AccAddress,
	orderID uint64,
	otherAddress string,
	otherOrderID uint64,
	otherPrice types.AssetAmount,
) (types.AssetAmount, types.AssetAmount, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	order, err := k.GetOrder(ctx, orderID)
	if err != nil {
		return types.AssetAmount{}, types.AssetAmount{}, err
	}

	if order.Status != types.OrderStatusActive {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrAlreadyFinalized.Wrapf("order %d is %s", orderID, order.Status)
	}

	if !otherPrice.SameKind(order.Payment) {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrAssetMismatch.Wrapf(
			"other price %s must be the escrowed asset %s", otherPrice.BankDenom(), order.Payment.BankDenom())
	}

	diff := order.Payment.Amount.Sub(otherPrice.Amount)
	if diff.IsNegative() {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrOverdraftAttempt.Wrapf(
			"other price %s exceeds escrowed payment %s", otherPrice, order.Payment)
	}

	ownerAddr, err := sdk.AccAddressFromBech32(order.Owner)
	if err != nil {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrInvalidState.Wrapf("invalid owner address: %v", err)
	}

	moduleAddr := k.GetModuleAddress()

	var received math.Int
	switch {
	case otherAddress == "" || otherAddress == moduleAddr.String():
		// Local counterparty: fill inline, then read the released escrow off
		// the counterparty record. Released assets of a different kind than
		// the price count for nothing.
		if otherOrderID == orderID {
			return types.AssetAmount{}, types.AssetAmount{}, types.ErrInvalidOrder.Wrapf(
				"order %d cannot settle against itself", orderID)
		}

		otherOrder, err := k.GetOrder(ctx, otherOrderID)
		if err != nil {
			return types.AssetAmount{}, types.AssetAmount{}, err
		}

		if err := k.FillOrder(ctx, moduleAddr, otherOrderID, otherPrice); err != nil {
			return types.AssetAmount{}, types.AssetAmount{}, err
		}

		if otherOrder.Payment.SameKind(order.Price) {
			received = otherOrder.Payment.Amount
		} else {
			received = math.ZeroInt()
		}

	case strings.HasPrefix(otherAddress, "channel-"):
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrCrossDomainUnsafe.Wrapf(
			"counterparty %s is on another chain, use DispatchFillOrder", otherAddress)

	default:
		filler, ok := k.counterparties[otherAddress]
		if !ok {
			return types.AssetAmount{}, types.AssetAmount{}, types.ErrCounterpartyNotFound.Wrapf(
				"no settlement venue registered at %s", otherAddress)
		}

		before := k.bankKeeper.GetBalance(ctx, moduleAddr, order.Price.BankDenom()).Amount
		if err := filler.FillOrder(ctx, moduleAddr, otherOrderID, otherPrice); err != nil {
			return types.AssetAmount{}, types.AssetAmount{}, err
		}
		after := k.bankKeeper.GetBalance(ctx, moduleAddr, order.Price.BankDenom()).Amount

		received = after.Sub(before)
	}

	// The counterparty call may have reached back into this store. Settle only
	// from the order's current state, never the pre-fill copy.
	order, err = k.GetOrder(ctx, orderID)
	if err != nil {
		return types.AssetAmount{}, types.AssetAmount{}, err
	}
	if order.Status != types.OrderStatusActive {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrAlreadyFinalized.Wrapf(
			"order %d was finalized during counterparty settlement", orderID)
	}

	if received.LT(order.Price.Amount) {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrInsufficientSettlement.Wrapf(
			"counterparty fill released %s%s, order requires %s", received, order.Price.BankDenom(), order.Price)
	}

	refunded := order.Payment.WithAmount(diff)
	if diff.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, caller, refunded.Coins()); err != nil {
			return types.AssetAmount{}, types.AssetAmount{}, types.ErrInvalidState.Wrapf("failed to refund unspent escrow: %v", err)
		}
	}

	receivedAsset := order.Price.WithAmount(received)
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, ownerAddr, receivedAsset.Coins()); err != nil {
		return types.AssetAmount{}, types.AssetAmount{}, types.ErrInvalidState.Wrapf("failed to forward settlement: %v", err)
	}

	order.Status = types.OrderStatusFilled
	if err := k.SetOrder(ctx, order); err != nil {
		return types.AssetAmount{}, types.AssetAmount{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOrderFilled,
			sdk.NewAttribute(types.AttributeKeyOrderID, fmt.Sprintf("%d", orderID)),
			sdk.NewAttribute(types.AttributeKeyOwner, order.Owner),
			sdk.NewAttribute(types.AttributeKeyCaller, caller.String()),
			sdk.NewAttribute(types.AttributeKeyReceived, receivedAsset.String()),
			sdk.NewAttribute(types.AttributeKeyRefunded, refunded.String()),
		),
	)

	return receivedAsset, refunded, nil
}
