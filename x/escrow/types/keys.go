package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "escrow"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_" + ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName

	// PortID is the default port ID for the escrow IBC module
	PortID = "escrow"
)

// Store key prefixes
var (
	OrderKeyPrefix       = []byte{0x01} // prefix for order records, keyed by order id
	OrderCountKey        = []byte{0x02} // key for the number of appended orders
	PendingFillKeyPrefix = []byte{0x03} // prefix for pending cross-chain fills, keyed by channel and sequence
	ParamsKey            = []byte{0x04} // key for module parameters
)

// GetOrderKey returns the store key for an order record
func GetOrderKey(orderID uint64) []byte {
	return append(OrderKeyPrefix, sdk.Uint64ToBigEndian(orderID)...)
}

// GetPendingFillKey returns the store key for a pending fill. The channel
// identifier is length-prefix free because it never contains the separator.
func GetPendingFillKey(channelID string, sequence uint64) []byte {
	key := append(PendingFillKeyPrefix, []byte(channelID)...)
	key = append(key, []byte("/")...)
	return append(key, sdk.Uint64ToBigEndian(sequence)...)
}
