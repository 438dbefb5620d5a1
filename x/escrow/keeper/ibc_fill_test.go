package keeper_test

import (
	"encoding/json"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/arcadia-chain/arcadia/testutil/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

const testChannel = "channel-0"

func dispatchTestFill(t *testing.T, k keeper.Keeper, ctx sdk.Context, mocks *keepertest.EscrowMocks) (uint64, uint64) {
	t.Helper()

	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr,
		types.NewAssetAmount("uatom", math.NewInt(100)),
		types.NewAssetAmount("uusdc", math.NewInt(50)))

	mocks.Scoped.AuthorizeChannel(types.PortID, testChannel)

	seq, err := k.DispatchFillOrder(ctx, callerAddr, orderID, testChannel, 7,
		types.NewAssetAmount("uatom", math.NewInt(80)))
	require.NoError(t, err)
	return orderID, seq
}

func ackPacket(seq uint64) channeltypes.Packet {
	return channeltypes.NewPacket(nil, seq, types.PortID, testChannel,
		types.PortID, "channel-9", clienttypes.ZeroHeight(), 0)
}

func TestDispatchFillOrder(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)
	require.Equal(t, uint64(1), seq)

	// packet left with the fill request
	require.Len(t, mocks.Channel.Packets, 1)
	sent := mocks.Channel.Packets[0]
	require.Equal(t, types.PortID, sent.SourcePort)
	require.Equal(t, testChannel, sent.SourceChannel)
	require.True(t, sent.TimeoutHeight.IsZero())
	require.NotZero(t, sent.TimeoutTimestamp)

	var data types.FillOrderPacketData
	require.NoError(t, json.Unmarshal(sent.Data, &data))
	require.Equal(t, types.FillOrderType, data.Type)
	require.Equal(t, uint64(7), data.OrderId)
	require.Equal(t, math.NewInt(80), data.Payment.Amount)
	require.Equal(t, callerAddr.String(), data.Sender)

	// the captured context is persisted, nothing else moved
	pending, found := k.GetPendingFill(ctx, testChannel, seq)
	require.True(t, found)
	require.Equal(t, orderID, pending.OrderId)
	require.Equal(t, callerAddr.String(), pending.Caller)
	require.Equal(t, math.NewInt(20), pending.Remaining.Amount)
	require.Equal(t, math.NewInt(80), pending.OtherPrice.Amount)

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusActive, order.Status)
	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, k.GetModuleAddress(), "uatom").Amount)
}

func TestDispatchFillOrderGuards(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID := createTestOrder(t, k, ctx, mocks, ownerAddr,
		types.NewAssetAmount("uatom", math.NewInt(100)),
		types.NewAssetAmount("uusdc", math.NewInt(50)))
	mocks.Scoped.AuthorizeChannel(types.PortID, testChannel)

	// no capability claimed for this channel
	_, err := k.DispatchFillOrder(ctx, callerAddr, orderID, "channel-5", 7,
		types.NewAssetAmount("uatom", math.NewInt(80)))
	require.ErrorIs(t, err, types.ErrChannelNotAuthorized)

	// overdraft
	_, err = k.DispatchFillOrder(ctx, callerAddr, orderID, testChannel, 7,
		types.NewAssetAmount("uatom", math.NewInt(120)))
	require.ErrorIs(t, err, types.ErrOverdraftAttempt)

	// wrong asset kind
	_, err = k.DispatchFillOrder(ctx, callerAddr, orderID, testChannel, 7,
		types.NewAssetAmount("uusdc", math.NewInt(50)))
	require.ErrorIs(t, err, types.ErrAssetMismatch)

	// channel allowlist
	params := k.GetParams(ctx)
	params.AuthorizedChannels = []types.AuthorizedChannel{{PortId: types.PortID, ChannelId: "channel-8"}}
	require.NoError(t, k.SetParams(ctx, params))

	_, err = k.DispatchFillOrder(ctx, callerAddr, orderID, testChannel, 7,
		types.NewAssetAmount("uatom", math.NewInt(80)))
	require.ErrorIs(t, err, types.ErrChannelNotAuthorized)

	// finalized order
	params.AuthorizedChannels = nil
	require.NoError(t, k.SetParams(ctx, params))
	require.NoError(t, k.CancelOrder(ctx, ownerAddr, orderID))

	_, err = k.DispatchFillOrder(ctx, callerAddr, orderID, testChannel, 7,
		types.NewAssetAmount("uatom", math.NewInt(80)))
	require.ErrorIs(t, err, types.ErrAlreadyFinalized)
}

func TestAckSuccessSettles(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	// the transport credited the released remote assets to the module
	received := types.NewAssetAmount("uusdc", math.NewInt(60))
	mocks.Bank.Fund(k.GetModuleAddress(), received.Coins())

	err := k.OnAcknowledgementFillPacket(ctx, ackPacket(seq), types.NewFillOrderSuccessAck(received))
	require.NoError(t, err)

	// spent escrow to the channel escrow account, remainder to the caller,
	// released assets to the owner
	escrowAddr := transfertypes.GetEscrowAddress(types.PortID, testChannel)
	require.Equal(t, math.NewInt(80), mocks.Bank.GetBalance(ctx, escrowAddr, "uatom").Amount)
	require.Equal(t, math.NewInt(20), mocks.Bank.GetBalance(ctx, callerAddr, "uatom").Amount)
	require.Equal(t, math.NewInt(60), mocks.Bank.GetBalance(ctx, ownerAddr, "uusdc").Amount)

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusFilled, order.Status)

	_, found := k.GetPendingFill(ctx, testChannel, seq)
	require.False(t, found)
}

func TestAckFailureLeavesOrderActive(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	err := k.OnAcknowledgementFillPacket(ctx, ackPacket(seq),
		types.NewFillOrderErrorAck(types.ErrOrderNotFound))
	require.NoError(t, err)

	// escrow untouched, order can be dispatched again
	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusActive, order.Status)
	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, k.GetModuleAddress(), "uatom").Amount)
	require.True(t, mocks.Bank.GetBalance(ctx, callerAddr, "uatom").Amount.IsZero())

	_, found := k.GetPendingFill(ctx, testChannel, seq)
	require.False(t, found)

	var sawAborted bool
	for _, ev := range ctx.EventManager().Events() {
		if ev.Type == types.EventTypeFillAborted {
			sawAborted = true
		}
	}
	require.True(t, sawAborted)
}

func TestAckUnderpaymentAborts(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	err := k.OnAcknowledgementFillPacket(ctx, ackPacket(seq),
		types.NewFillOrderSuccessAck(types.NewAssetAmount("uusdc", math.NewInt(40))))
	require.NoError(t, err)

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusActive, order.Status)
}

func TestAckAfterCancelIsDropped(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	// the owner wins the race against the in-flight packet
	require.NoError(t, k.CancelOrder(ctx, ownerAddr, orderID))
	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, ownerAddr, "uatom").Amount)

	err := k.OnAcknowledgementFillPacket(ctx, ackPacket(seq),
		types.NewFillOrderSuccessAck(types.NewAssetAmount("uusdc", math.NewInt(60))))
	require.NoError(t, err)

	// no transfers happened and the cancellation stands
	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusCancelled, order.Status)
	require.True(t, mocks.Bank.GetBalance(ctx, ownerAddr, "uusdc").Amount.IsZero())
	require.True(t, mocks.Bank.GetBalance(ctx, callerAddr, "uatom").Amount.IsZero())

	_, found := k.GetPendingFill(ctx, testChannel, seq)
	require.False(t, found)
}

func TestAckWithoutPendingFillIsNoop(t *testing.T) {
	k, ctx, _ := keepertest.EscrowKeeper(t)

	err := k.OnAcknowledgementFillPacket(ctx, ackPacket(99),
		types.NewFillOrderSuccessAck(types.NewAssetAmount("uusdc", math.NewInt(60))))
	require.NoError(t, err)
}

func TestTimeoutAbandonsPendingFill(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID, seq := dispatchTestFill(t, k, ctx, mocks)

	require.NoError(t, k.OnTimeoutFillPacket(ctx, ackPacket(seq)))

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusActive, order.Status)
	require.Equal(t, math.NewInt(100), mocks.Bank.GetBalance(ctx, k.GetModuleAddress(), "uatom").Amount)

	_, found := k.GetPendingFill(ctx, testChannel, seq)
	require.False(t, found)
}

func TestOnRecvFillPacket(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID := createTestOrder(t, k, ctx, mocks, ownerBAddr,
		types.NewAssetAmount("uusdc", math.NewInt(60)),
		types.NewAssetAmount("uatom", math.NewInt(80)))

	// incoming payment was credited to the module by the transport
	payment := types.NewAssetAmount("uatom", math.NewInt(80))
	mocks.Bank.Fund(k.GetModuleAddress(), payment.Coins())

	data := types.NewFillOrderPacket(orderID, payment, callerAddr.String())
	packet := channeltypes.NewPacket(nil, 1, types.PortID, "channel-4",
		types.PortID, testChannel, clienttypes.ZeroHeight(), 0)

	released, err := k.OnRecvFillPacket(ctx, packet, data)
	require.NoError(t, err)
	require.Equal(t, types.NewAssetAmount("uusdc", math.NewInt(60)), released)

	// released escrow parked on the channel escrow account, payment forwarded
	escrowAddr := transfertypes.GetEscrowAddress(types.PortID, testChannel)
	require.Equal(t, math.NewInt(60), mocks.Bank.GetBalance(ctx, escrowAddr, "uusdc").Amount)
	require.Equal(t, math.NewInt(80), mocks.Bank.GetBalance(ctx, ownerBAddr, "uatom").Amount)

	order, err := k.GetOrder(ctx, orderID)
	require.NoError(t, err)
	require.Equal(t, types.OrderStatusFilled, order.Status)
}

func TestOnRecvFillPacketErrors(t *testing.T) {
	k, ctx, mocks := keepertest.EscrowKeeper(t)

	orderID := createTestOrder(t, k, ctx, mocks, ownerBAddr,
		types.NewAssetAmount("uusdc", math.NewInt(60)),
		types.NewAssetAmount("uatom", math.NewInt(80)))

	packet := channeltypes.NewPacket(nil, 1, types.PortID, "channel-4",
		types.PortID, testChannel, clienttypes.ZeroHeight(), 0)

	tests := []struct {
		name    string
		data    types.FillOrderPacketData
		wantErr error
	}{
		{
			name:    "unknown order",
			data:    types.NewFillOrderPacket(55, types.NewAssetAmount("uatom", math.NewInt(80)), callerAddr.String()),
			wantErr: types.ErrOrderNotFound,
		},
		{
			name:    "wrong asset kind",
			data:    types.NewFillOrderPacket(orderID, types.NewAssetAmount("uusdc", math.NewInt(80)), callerAddr.String()),
			wantErr: types.ErrAssetMismatch,
		},
		{
			name:    "underpayment",
			data:    types.NewFillOrderPacket(orderID, types.NewAssetAmount("uatom", math.NewInt(40)), callerAddr.String()),
			wantErr: types.ErrInsufficientPayment,
		},
		{
			name:    "malformed packet",
			data:    types.FillOrderPacketData{Type: "bogus"},
			wantErr: types.ErrInvalidPacket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.OnRecvFillPacket(ctx, packet, tt.data)
			require.ErrorIs(t, err, tt.wantErr)

			order, err := k.GetOrder(ctx, orderID)
			require.NoError(t, err)
			require.Equal(t, types.OrderStatusActive, order.Status)
		})
	}
}
