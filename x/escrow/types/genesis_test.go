package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

func validGenesisOrder(id uint64) types.Order {
	return types.Order{
		Id:      id,
		Owner:   testAddr,
		Payment: types.NewAssetAmount("uatom", math.NewInt(100)),
		Price:   types.NewAssetAmount("uusdc", math.NewInt(50)),
		Status:  types.OrderStatusActive,
	}
}

func validGenesisPendingFill(orderID, seq uint64) types.PendingFill {
	return types.PendingFill{
		OrderId:    orderID,
		Caller:     testAddr,
		Remaining:  types.NewAssetAmount("uatom", math.NewInt(20)),
		OtherPrice: types.NewAssetAmount("uatom", math.NewInt(80)),
		ChannelId:  "channel-0",
		Sequence:   seq,
	}
}

func TestGenesisStateValidate(t *testing.T) {
	tests := []struct {
		name     string
		genState types.GenesisState
		wantErr  bool
	}{
		{
			name:     "default is valid",
			genState: *types.DefaultGenesis(),
		},
		{
			name: "valid populated state",
			genState: types.GenesisState{
				Params:       types.DefaultParams(),
				Orders:       []types.Order{validGenesisOrder(1), validGenesisOrder(2)},
				PendingFills: []types.PendingFill{validGenesisPendingFill(1, 1)},
			},
		},
		{
			name: "order ids not dense",
			genState: types.GenesisState{
				Params: types.DefaultParams(),
				Orders: []types.Order{validGenesisOrder(1), validGenesisOrder(3)},
			},
			wantErr: true,
		},
		{
			name: "order ids not 1-based",
			genState: types.GenesisState{
				Params: types.DefaultParams(),
				Orders: []types.Order{validGenesisOrder(2)},
			},
			wantErr: true,
		},
		{
			name: "pending fill references unknown order",
			genState: types.GenesisState{
				Params:       types.DefaultParams(),
				Orders:       []types.Order{validGenesisOrder(1)},
				PendingFills: []types.PendingFill{validGenesisPendingFill(9, 1)},
			},
			wantErr: true,
		},
		{
			name: "duplicate pending fill packet",
			genState: types.GenesisState{
				Params:       types.DefaultParams(),
				Orders:       []types.Order{validGenesisOrder(1)},
				PendingFills: []types.PendingFill{validGenesisPendingFill(1, 1), validGenesisPendingFill(1, 1)},
			},
			wantErr: true,
		},
		{
			name: "invalid params",
			genState: types.GenesisState{
				Params: types.Params{MinOrderAmount: math.NewInt(-1), FillTimeoutSeconds: 600},
			},
			wantErr: true,
		},
		{
			name: "invalid order",
			genState: types.GenesisState{
				Params: types.DefaultParams(),
				Orders: []types.Order{{Id: 1, Owner: testAddr, Status: types.OrderStatusActive}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.genState.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
