package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/arcadia-chain/arcadia/testutil/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

func TestEscrowSolvencyInvariant(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	// empty state is solvent
	_, broken := keeper.EscrowSolvencyInvariant(k)(ctx)
	require.False(t, broken)

	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr,
		types.NewAssetAmount("uatom", math.NewInt(100)),
		types.NewAssetAmount("uusdc", math.NewInt(50)))

	_, broken = keeper.EscrowSolvencyInvariant(k)(ctx)
	require.False(t, broken)

	// settle the order, solvency holds with an empty module account
	attached := types.NewAssetAmount("uusdc", math.NewInt(50))
	mocks.Bank.Fund(fillerAddr, attached.Coins())
	require.NoError(t, k.FillOrder(ctx, fillerAddr, orderID, attached))

	_, broken = keeper.EscrowSolvencyInvariant(k)(ctx)
	require.False(t, broken)
}

func TestEscrowSolvencyInvariantDetectsShortfall(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	createTestOrder(t, k, ctx, mocks, ownerAddr,
		types.NewAssetAmount("uatom", math.NewInt(100)),
		types.NewAssetAmount("uusdc", math.NewInt(50)))

	delete(mocks.Bank.Balances, k.GetModuleAddress().String())

	msg, broken := keeper.EscrowSolvencyInvariant(k)(ctx)
	require.True(t, broken)
	require.Contains(t, msg, "uatom")
}

func TestOrderRecordsInvariant(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	for i := 0; i < 3; i++ {
		createTestOrder(t, k, ctx, mocks, ownerAddr,
			types.NewAssetAmount("uatom", math.NewInt(10)),
			types.NewAssetAmount("uusdc", math.NewInt(5)))
	}

	_, broken := keeper.OrderRecordsInvariant(k)(ctx)
	require.False(t, broken)

	// a count out of step with the records breaks the invariant
	k.SetOrderCount(ctx, 5)
	_, broken = keeper.OrderRecordsInvariant(k)(ctx)
	require.True(t, broken)
}

func TestPendingFillsInvariant(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	_, broken := keeper.PendingFillsInvariant(k)(ctx)
	require.False(t, broken)

	// a pending fill for a finalized order is invalid state
	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	order.Status = types.OrderStatusFilled
	require.NoError(t, k.SetOrder(ctx, order))

	_, broken = keeper.PendingFillsInvariant(k)(ctx)
	require.True(t, broken)

	k.DeletePendingFill(ctx, testChannel, seq)
	_, broken = keeper.PendingFillsInvariant(k)(ctx)
	require.False(t, broken)
}

func TestAllInvariants(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	createTestOrder(t, k, ctx, mocks, ownerAddr,
		types.NewAssetAmount("uatom", math.NewInt(100)),
		types.NewAssetAmount("uusdc", math.NewInt(50)))

	_, broken := keeper.AllInvariants(k)(ctx)
	require.False(t, broken)
}
