package keeper

import (
	"context"
	"fmt"

	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// InitGenesis initializes the escrow module state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid escrow genesis: %w", err)
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	for _, order := range genState.Orders {
		if err := k.SetOrder(ctx, order); err != nil {
			return err
		}
	}
	k.SetOrderCount(ctx, uint64(len(genState.Orders)))

	for _, pending := range genState.PendingFills {
		if err := k.SetPendingFill(ctx, pending); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis returns the escrow module's current state as a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:       k.GetParams(ctx),
		Orders:       k.GetAllOrders(ctx),
		PendingFills: k.GetAllPendingFills(ctx),
	}
}
