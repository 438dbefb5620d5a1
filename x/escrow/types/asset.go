package types

import (
	"fmt"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetAmount is a payable or receivable quantity of a fungible or
// semi-fungible asset. Instance distinguishes sub-instances of a
// semi-fungible denomination; it is zero for plain fungible assets.
//
// Two AssetAmounts are comparable for settlement only when they are
// same-kind, i.e. both Denom and Instance match.
type AssetAmount struct {
	Denom    string   `json:"denom"`
	Instance uint64   `json:"instance,omitempty"`
	Amount   math.Int `json:"amount"`
}

// NewAssetAmount creates a fungible AssetAmount
func NewAssetAmount(denom string, amount math.Int) AssetAmount {
	return AssetAmount{Denom: denom, Amount: amount}
}

// NewInstanceAssetAmount creates a semi-fungible AssetAmount
func NewInstanceAssetAmount(denom string, instance uint64, amount math.Int) AssetAmount {
	return AssetAmount{Denom: denom, Instance: instance, Amount: amount}
}

// SameKind reports whether two quantities reference the identical asset and
// sub-instance. Only same-kind quantities may be added or compared for
// settlement matching.
func (a AssetAmount) SameKind(b AssetAmount) bool {
	return a.Denom == b.Denom && a.Instance == b.Instance
}

// WithAmount returns a copy of the same asset kind carrying a different amount
func (a AssetAmount) WithAmount(amount math.Int) AssetAmount {
	return AssetAmount{Denom: a.Denom, Instance: a.Instance, Amount: amount}
}

// BankDenom returns the bank-level denomination for this asset kind. Instances
// of a semi-fungible asset are tracked as distinct denominations, mirroring
// how IBC vouchers qualify a base denom with a path.
func (a AssetAmount) BankDenom() string {
	if a.Instance == 0 {
		return a.Denom
	}
	return fmt.Sprintf("%s-%d", a.Denom, a.Instance)
}

// Coin converts the quantity into an sdk.Coin for bank transfers
func (a AssetAmount) Coin() sdk.Coin {
	return sdk.NewCoin(a.BankDenom(), a.Amount)
}

// Coins converts the quantity into a single-element sdk.Coins
func (a AssetAmount) Coins() sdk.Coins {
	return sdk.NewCoins(a.Coin())
}

// Validate checks that the quantity is well-formed with a positive amount
func (a AssetAmount) Validate() error {
	if err := sdk.ValidateDenom(a.Denom); err != nil {
		return errors.Wrapf(ErrInvalidOrder, "invalid denom: %v", err)
	}
	if a.Amount.IsNil() || !a.Amount.IsPositive() {
		return errors.Wrap(ErrInvalidOrder, "amount must be positive")
	}
	return nil
}

// String implements fmt.Stringer
func (a AssetAmount) String() string {
	if a.Instance == 0 {
		return fmt.Sprintf("%s%s", a.Amount, a.Denom)
	}
	return fmt.Sprintf("%s%s/%d", a.Amount, a.Denom, a.Instance)
}
