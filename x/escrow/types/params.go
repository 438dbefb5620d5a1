package types

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Default parameter values
const (
	// DefaultFillTimeoutSeconds is the relative timeout for dispatched
	// cross-chain fill packets.
	DefaultFillTimeoutSeconds = 600
)

// AuthorizedChannel identifies an IBC channel permitted for cross-chain fills
type AuthorizedChannel struct {
	PortId    string `json:"port_id"`
	ChannelId string `json:"channel_id"`
}

// Params defines the escrow module parameters.
//
// An empty AuthorizedChannels list permits any channel; a non-empty list is
// an allowlist.
type Params struct {
	MinOrderAmount     sdkmath.Int         `json:"min_order_amount"`
	AuthorizedChannels []AuthorizedChannel `json:"authorized_channels"`
	FillTimeoutSeconds uint64              `json:"fill_timeout_seconds"`
}

// DefaultParams returns a default set of parameters
func DefaultParams() Params {
	return Params{
		MinOrderAmount:     sdkmath.OneInt(),
		AuthorizedChannels: []AuthorizedChannel{},
		FillTimeoutSeconds: DefaultFillTimeoutSeconds,
	}
}

// Validate validates the set of params
func (p Params) Validate() error {
	if p.MinOrderAmount.IsNil() || !p.MinOrderAmount.IsPositive() {
		return fmt.Errorf("min order amount must be positive")
	}
	if p.FillTimeoutSeconds == 0 {
		return fmt.Errorf("fill timeout must be positive")
	}
	for _, ch := range p.AuthorizedChannels {
		if strings.TrimSpace(ch.PortId) == "" {
			return fmt.Errorf("authorized channel port_id cannot be empty")
		}
		if strings.TrimSpace(ch.ChannelId) == "" {
			return fmt.Errorf("authorized channel channel_id cannot be empty")
		}
	}
	return nil
}

// IsChannelAuthorized reports whether the given channel may carry fill packets
func (p Params) IsChannelAuthorized(portID, channelID string) bool {
	if len(p.AuthorizedChannels) == 0 {
		return true
	}
	for _, ch := range p.AuthorizedChannels {
		if ch.PortId == portID && ch.ChannelId == channelID {
			return true
		}
	}
	return false
}
