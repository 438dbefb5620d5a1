package types

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OrderStatus represents the current status of an escrow order.
//
// Order lifecycle:
//
//	Active → Filled    (direct, composite or cross-chain settlement)
//	Active → Cancelled (owner cancellation)
//
// Both Filled and Cancelled are terminal: the record is never mutated again.
type OrderStatus uint8

const (
	// OrderStatusActive indicates the order is open and its payment escrowed.
	OrderStatusActive OrderStatus = 1

	// OrderStatusFilled indicates the order has been settled.
	OrderStatusFilled OrderStatus = 2

	// OrderStatusCancelled indicates the order was cancelled by its owner.
	OrderStatusCancelled OrderStatus = 3
)

// IsTerminal reports whether the status forbids further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusFilled || s == OrderStatusCancelled
}

// String implements fmt.Stringer
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusActive:
		return "active"
	case OrderStatusFilled:
		return "filled"
	case OrderStatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Order is an escrowed limit order. The owner has deposited Payment with the
// module account and receives Price (or better) when the order fills.
//
// Records are append-only: cancellation and fill are status transitions, not
// removals, so indices stay stable for cross-references and history is kept.
type Order struct {
	// Id is the dense, 1-based index of the order
	Id uint64 `json:"id"`
	// Owner is the bech32 address that created the order
	Owner string `json:"owner"`
	// Payment is the asset held in escrow for the owner
	Payment AssetAmount `json:"payment"`
	// Price is the counter-asset required to fill the order
	Price AssetAmount `json:"price"`
	// Status is the current lifecycle status
	Status OrderStatus `json:"status"`
	// CreatedAtHeight is the block height at creation
	CreatedAtHeight int64 `json:"created_at_height"`
}

// Validate checks structural well-formedness of an order record
func (o Order) Validate() error {
	if o.Id == 0 {
		return errors.Wrap(ErrInvalidOrder, "id must be positive")
	}
	if _, err := sdk.AccAddressFromBech32(o.Owner); err != nil {
		return errors.Wrapf(ErrInvalidOrder, "invalid owner address: %v", err)
	}
	if err := o.Payment.Validate(); err != nil {
		return errors.Wrap(err, "payment")
	}
	if err := o.Price.Validate(); err != nil {
		return errors.Wrap(err, "price")
	}
	switch o.Status {
	case OrderStatusActive, OrderStatusFilled, OrderStatusCancelled:
	default:
		return errors.Wrapf(ErrInvalidOrder, "unknown status %d", o.Status)
	}
	return nil
}

// OrderFiller is the single capability the settlement engine needs from a
// counterparty: fill one of its orders with a supplied payment on behalf of
// the given filler. The escrow keeper implements it for its own store, and
// other same-chain settlement venues can be registered under their address.
type OrderFiller interface {
	FillOrder(ctx context.Context, filler sdk.AccAddress, orderID uint64, payment AssetAmount) error
}
