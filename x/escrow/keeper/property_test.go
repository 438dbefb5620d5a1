package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"pgregory.net/rapid"

	keepertest "github.com/arcadia-chain/arcadia/testutil/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// TestOrderLifecycleProperties drives random create, cancel and fill
// sequences against the keeper and checks the structural invariants the
// store promises after every step.
func TestOrderLifecycleProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k, ctx, mocks := keepertest.EscrowKeeper(t)

		numOrders := rapid.IntRange(1, 8).Draw(rt, "numOrders")
		for i := 0; i < numOrders; i++ {
			payment := types.NewAssetAmount("uatom", math.NewInt(rapid.Int64Range(1, 1_000_000).Draw(rt, "payment")))
			price := types.NewAssetAmount("uusdc", math.NewInt(rapid.Int64Range(1, 1_000_000).Draw(rt, "price")))
			createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)
		}

		terminal := make(map[uint64]types.OrderStatus)

		numOps := rapid.IntRange(1, 20).Draw(rt, "numOps")
		for i := 0; i < numOps; i++ {
			orderID := uint64(rapid.IntRange(1, numOrders).Draw(rt, "orderID"))

			if rapid.Bool().Draw(rt, "cancel") {
				_ = k.CancelOrder(ctx, ownerAddr, orderID)
			} else {
				order, err := k.GetOrder(ctx, orderID)
				if err != nil {
					continue
				}
				attach := order.Price.WithAmount(order.Price.Amount.Add(math.NewInt(rapid.Int64Range(0, 100).Draw(rt, "surplus"))))
				mocks.Bank.Fund(fillerAddr, attach.Coins())
				_ = k.FillOrder(ctx, fillerAddr, orderID, attach)
			}

			// terminal states are never left
			for id, status := range terminal {
				order, err := k.GetOrder(ctx, id)
				if err != nil {
					rt.Fatalf("order %d disappeared: %v", id, err)
				}
				if order.Status != status {
					rt.Fatalf("order %d left terminal status %s for %s", id, status, order.Status)
				}
			}
			for _, order := range k.GetAllOrders(ctx) {
				if order.Status.IsTerminal() {
					terminal[order.Id] = order.Status
				}
			}

			// the module account always covers every active escrow
			if msg, broken := keeper.EscrowSolvencyInvariant(k)(ctx); broken {
				rt.Fatalf("solvency broken: %s", msg)
			}
			if msg, broken := keeper.OrderRecordsInvariant(k)(ctx); broken {
				rt.Fatalf("order records broken: %s", msg)
			}
		}
	})
}
