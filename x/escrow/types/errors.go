package types

import (
	"cosmossdk.io/errors"
)

// Escrow module sentinel errors
var (
	ErrOrderNotFound          = errors.Register(ModuleName, 2, "order not found")
	ErrUnauthorized           = errors.Register(ModuleName, 3, "caller is not the order owner")
	ErrAlreadyFinalized       = errors.Register(ModuleName, 4, "order is no longer active")
	ErrAssetMismatch          = errors.Register(ModuleName, 5, "asset kind mismatch")
	ErrInsufficientPayment    = errors.Register(ModuleName, 6, "payment below required price")
	ErrInsufficientSettlement = errors.Register(ModuleName, 7, "settlement proceeds below required price")
	ErrOverdraftAttempt       = errors.Register(ModuleName, 8, "forwarded amount exceeds escrowed payment")
	ErrCrossDomainUnsafe      = errors.Register(ModuleName, 9, "synchronous fill is not safe across chains")
	ErrCounterpartyNotFound   = errors.Register(ModuleName, 10, "no fill counterparty registered at address")
	ErrInvalidOrder           = errors.Register(ModuleName, 11, "invalid order")
	ErrInvalidState           = errors.Register(ModuleName, 12, "invalid state")
	ErrChannelNotAuthorized   = errors.Register(ModuleName, 13, "channel not authorized for cross-chain fills")
	ErrInvalidPacket          = errors.Register(ModuleName, 14, "invalid packet")
)
