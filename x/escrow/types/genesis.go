package types

import (
	"fmt"
)

// GenesisState defines the escrow module's genesis state
type GenesisState struct {
	Params       Params        `json:"params"`
	Orders       []Order       `json:"orders"`
	PendingFills []PendingFill `json:"pending_fills"`
}

// DefaultGenesis returns the default genesis state for the escrow module
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:       DefaultParams(),
		Orders:       []Order{},
		PendingFills: []PendingFill{},
	}
}

// Validate ensures the genesis state is well-formed. Orders must form a
// dense, 1-based sequence because the store is append-only and indices are
// cross-referenced externally.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	for i, order := range gs.Orders {
		if err := order.Validate(); err != nil {
			return fmt.Errorf("invalid order at position %d: %w", i, err)
		}
		if order.Id != uint64(i)+1 {
			return fmt.Errorf("order ids must be dense and 1-based: position %d has id %d", i, order.Id)
		}
	}

	seen := make(map[string]struct{})
	for i, pf := range gs.PendingFills {
		if err := pf.Validate(); err != nil {
			return fmt.Errorf("invalid pending fill at position %d: %w", i, err)
		}
		if pf.OrderId > uint64(len(gs.Orders)) {
			return fmt.Errorf("pending fill at position %d references unknown order %d", i, pf.OrderId)
		}
		key := fmt.Sprintf("%s/%d", pf.ChannelId, pf.Sequence)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate pending fill for packet %s", key)
		}
		seen[key] = struct{}{}
	}

	return nil
}
