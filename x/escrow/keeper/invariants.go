package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// RegisterInvariants registers all escrow invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "escrow-solvency", EscrowSolvencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "order-records", OrderRecordsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pending-fills", PendingFillsInvariant(k))
}

// AllInvariants runs all invariants of the escrow module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := EscrowSolvencyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = OrderRecordsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PendingFillsInvariant(k)(ctx)
	}
}

// EscrowSolvencyInvariant checks that the module account covers the escrowed
// payment of every active order. Dispatched fills do not move funds until
// acknowledged, so pending fills require no extra balance.
func EscrowSolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		required := make(map[string]math.Int)
		for _, order := range k.GetAllOrders(ctx) {
			if order.Status != types.OrderStatusActive {
				continue
			}

			denom := order.Payment.BankDenom()
			if existing, ok := required[denom]; ok {
				required[denom] = existing.Add(order.Payment.Amount)
			} else {
				required[denom] = order.Payment.Amount
			}
		}

		moduleAddr := k.GetModuleAddress()
		for denom, requiredAmount := range required {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if balance.Amount.LT(requiredAmount) {
				count++
				msg += fmt.Sprintf("denom %s: module balance (%s) < escrowed total (%s)\n",
					denom, balance.Amount.String(), requiredAmount.String())
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "escrow-solvency",
			fmt.Sprintf("found %d denoms with insufficient escrow backing\n%s", count, msg),
		), broken
	}
}

// OrderRecordsInvariant checks that order ids are dense and every record is
// well-formed
func OrderRecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		orders := k.GetAllOrders(ctx)
		orderCount := k.GetOrderCount(ctx)

		if uint64(len(orders)) != orderCount {
			count++
			msg += fmt.Sprintf("order count %d does not match %d stored records\n", orderCount, len(orders))
		}

		for i, order := range orders {
			if order.Id != uint64(i)+1 {
				count++
				msg += fmt.Sprintf("order at position %d has id %d\n", i, order.Id)
			}
			if err := order.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("order %d is malformed: %v\n", order.Id, err)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "order-records",
			fmt.Sprintf("found %d invalid order records\n%s", count, msg),
		), broken
	}
}

// PendingFillsInvariant checks that every pending fill references an existing
// active order and stays within its escrow
func PendingFillsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		for _, pending := range k.GetAllPendingFills(ctx) {
			order, err := k.GetOrder(ctx, pending.OrderId)
			if err != nil {
				count++
				msg += fmt.Sprintf("pending fill %s/%d references missing order %d\n",
					pending.ChannelId, pending.Sequence, pending.OrderId)
				continue
			}

			if order.Status != types.OrderStatusActive {
				count++
				msg += fmt.Sprintf("pending fill %s/%d references %s order %d\n",
					pending.ChannelId, pending.Sequence, order.Status, pending.OrderId)
			}

			spent := pending.OtherPrice.Amount.Add(pending.Remaining.Amount)
			if !spent.Equal(order.Payment.Amount) {
				count++
				msg += fmt.Sprintf("pending fill %s/%d splits %s of a %s escrow\n",
					pending.ChannelId, pending.Sequence, spent.String(), order.Payment.Amount.String())
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pending-fills",
			fmt.Sprintf("found %d invalid pending fills\n%s", count, msg),
		), broken
	}
}
