package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/arcadia-chain/arcadia/testutil/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

func TestFillOrder(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	payment := types.NewAssetAmount("uatom", math.NewInt(100))
	price := types.NewAssetAmount("uusdc", math.NewInt(50))
	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)

	attached := types.NewAssetAmount("uusdc", math.NewInt(50))
	mocks.Bank.Fund(fillerAddr, attached.Coins())

	require.NoError(t, k.FillOrder(ctx, fillerAddr, orderID, attached))

	// filler receives the escrowed payment, owner receives the price
	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, fillerAddr, "uatom").Amount)
	require.Equal(t, math.NewInt(50), mocks.Bank.GetBalance(ctx, ownerAddr, "uusdc").Amount)
	require.True(t, mocks.Bank.GetBalance(ctx, k.GetModuleAddress(), "uatom").Amount.IsZero())
	require.True(t, mocks.Bank.GetBalance(ctx, k.GetModuleAddress(), "uusdc").Amount.IsZero())

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusFilled, order.Status)
}

func TestFillOrderSurplusGoesToOwner(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	payment := types.NewAssetAmount("uatom", math.NewInt(100))
	price := types.NewAssetAmount("uusdc", math.NewInt(50))
	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)

	// attach 70 against a price of 50: the surplus is the owner's, not change
	attached := types.NewAssetAmount("uusdc", math.NewInt(70))
	mocks.Bank.Fund(fillerAddr, attached.Coins())

	require.NoError(t, k.FillOrder(ctx, fillerAddr, orderID, attached))

	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, fillerAddr, "uatom").Amount)
	require.True(t, mocks.Bank.GetBalance(ctx, fillerAddr, "uusdc").Amount.IsZero())
	require.Equal(t, math.NewInt(70), mocks.Bank.GetBalance(ctx, ownerAddr, "uusdc").Amount)
}

func TestFillOrderErrors(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	payment := types.NewAssetAmount("uatom", math.NewInt(100))
	price := types.NewAssetAmount("uusdc", math.NewInt(50))
	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)

	tests := []struct {
		name    string
		orderID uint64
		attach  types.AssetAmount
		wantErr error
	}{
		{
			name:    "unknown order",
			orderID: 42,
			attach:  types.NewAssetAmount("uusdc", math.NewInt(50)),
			wantErr: types.ErrOrderNotFound,
		},
		{
			name:    "wrong asset kind",
			orderID: orderID,
			attach:  types.NewAssetAmount("uatom", math.NewInt(50)),
			wantErr: types.ErrAssetMismatch,
		},
		{
			name:    "wrong instance",
			orderID: orderID,
			attach:  types.NewInstanceAssetAmount("uusdc", 7, math.NewInt(50)),
			wantErr: types.ErrAssetMismatch,
		},
		{
			name:    "underpayment",
			orderID: orderID,
			attach:  types.NewAssetAmount("uusdc", math.NewInt(40)),
			wantErr: types.ErrInsufficientPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks.Bank.Fund(fillerAddr, tt.attach.Coins())
			err := k.FillOrder(ctx, fillerAddr, tt.orderID, tt.attach)
			require.ErrorIs(t, err, tt.wantErr)

			// the order is untouched by failed fills
			order, err := k.GetOrder(ctx, orderID)
			require.NoError(t, err)
			require.Equal(t, types.OrderStatusActive, order.Status)
		})
	}
}

func TestFillOrderIsSingleUse(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	payment := types.NewAssetAmount("uatom", math.NewInt(100))
	price := types.NewAssetAmount("uusdc", math.NewInt(50))
	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)

	attached := types.NewAssetAmount("uusdc", math.NewInt(50))
	mocks.Bank.Fund(fillerAddr, attached.Coins())
	require.NoError(t, k.FillOrder(ctx, fillerAddr, orderID, attached))

	mocks.Bank.Fund(fillerAddr, attached.Coins())
	err := k.FillOrder(ctx, fillerAddr, orderID, attached)
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
}

func TestFillCancelledOrder(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	payment := types.NewAssetAmount("uatom", math.NewInt(100))
	price := types.NewAssetAmount("uusdc", math.NewInt(50))
	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr, payment, price)

	require.NoError(t, k.CancelOrder(ctx, ownerAddr, orderID))

	attached := types.NewAssetAmount("uusdc", math.NewInt(50))
	mocks.Bank.Fund(fillerAddr, attached.Coins())
	err := k.FillOrder(ctx, fillerAddr, orderID, attached)
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
}
