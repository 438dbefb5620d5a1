package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-chain/arcadia/x/escrow/keeper"
	"github.com/arcadia-chain/arcadia/x/escrow/types"
)

// MockBankKeeper is an in-memory bank keeper tracking balances per address.
// Module accounts are addressed through the standard module address
// derivation, so balance assertions work the same as against a real bank.
type MockBankKeeper struct {
	Balances map[string]sdk.Coins
}

// NewMockBankKeeper creates an empty mock bank keeper
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{Balances: make(map[string]sdk.Coins)}
}

// Fund credits an address with coins
func (m *MockBankKeeper) Fund(addr sdk.AccAddress, amt sdk.Coins) {
	m.Balances[addr.String()] = m.Balances[addr.String()].Add(amt...)
}

func (m *MockBankKeeper) send(from, to sdk.AccAddress, amt sdk.Coins) error {
	fromBalance := m.Balances[from.String()]
	newFrom, negative := fromBalance.SafeSub(amt...)
	if negative {
		return sdkerrors.ErrInsufficientFunds.Wrapf("%s has %s, needs %s", from, fromBalance, amt)
	}
	m.Balances[from.String()] = newFrom
	m.Balances[to.String()] = m.Balances[to.String()].Add(amt...)
	return nil
}

// SendCoinsFromAccountToModule implements types.BankKeeper
func (m *MockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.send(senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount implements types.BankKeeper
func (m *MockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.send(authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

// GetBalance implements types.BankKeeper
func (m *MockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	ok, found := m.Balances[addr.String()].Find(denom)
	if !ok {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	return found
}

// SentPacket records one SendPacket call on the mock channel keeper
type SentPacket struct {
	SourcePort       string
	SourceChannel    string
	TimeoutHeight    clienttypes.Height
	TimeoutTimestamp uint64
	Data             []byte
	Sequence         uint64
}

// MockChannelKeeper records sent packets and hands out sequences
type MockChannelKeeper struct {
	Packets []SentPacket
	SendErr error

	nextSequence uint64
}

// NewMockChannelKeeper creates a mock channel keeper starting at sequence 1
func NewMockChannelKeeper() *MockChannelKeeper {
	return &MockChannelKeeper{nextSequence: 1}
}

// SendPacket implements types.ChannelKeeper
func (m *MockChannelKeeper) SendPacket(
	ctx sdk.Context,
	chanCap *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.SendErr != nil {
		return 0, m.SendErr
	}

	seq := m.nextSequence
	m.nextSequence++
	m.Packets = append(m.Packets, SentPacket{
		SourcePort:       sourcePort,
		SourceChannel:    sourceChannel,
		TimeoutHeight:    timeoutHeight,
		TimeoutTimestamp: timeoutTimestamp,
		Data:             data,
		Sequence:         seq,
	})
	return seq, nil
}

// MockScopedKeeper stores capabilities by name
type MockScopedKeeper struct {
	Caps map[string]*capabilitytypes.Capability
}

// NewMockScopedKeeper creates an empty mock scoped keeper
func NewMockScopedKeeper() *MockScopedKeeper {
	return &MockScopedKeeper{Caps: make(map[string]*capabilitytypes.Capability)}
}

// GetCapability implements types.ScopedKeeper
func (m *MockScopedKeeper) GetCapability(ctx sdk.Context, name string) (*capabilitytypes.Capability, bool) {
	cap, ok := m.Caps[name]
	return cap, ok
}

// ClaimCapability implements types.ScopedKeeper
func (m *MockScopedKeeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	m.Caps[name] = cap
	return nil
}

// AuthorizeChannel installs a capability for the given channel so dispatches
// over it pass the capability check
func (m *MockScopedKeeper) AuthorizeChannel(portID, channelID string) {
	m.Caps[host.ChannelCapabilityPath(portID, channelID)] = capabilitytypes.NewCapability(uint64(len(m.Caps) + 1))
}

// MockPortKeeper tracks bound ports
type MockPortKeeper struct {
	Bound map[string]bool
}

// NewMockPortKeeper creates an empty mock port keeper
func NewMockPortKeeper() *MockPortKeeper {
	return &MockPortKeeper{Bound: make(map[string]bool)}
}

// IsBound implements types.PortKeeper
func (m *MockPortKeeper) IsBound(ctx sdk.Context, portID string) bool {
	return m.Bound[portID]
}

// BindPort implements types.PortKeeper
func (m *MockPortKeeper) BindPort(ctx sdk.Context, portID string) *capabilitytypes.Capability {
	m.Bound[portID] = true
	return capabilitytypes.NewCapability(uint64(len(m.Bound)))
}

// EscrowMocks bundles the mock dependencies wired into a test keeper
type EscrowMocks struct {
	Bank    *MockBankKeeper
	Channel *MockChannelKeeper
	Scoped  *MockScopedKeeper
	Port    *MockPortKeeper
}

// EscrowKeeper creates a test keeper for the escrow module with mock
// dependencies and an initialized default genesis
func EscrowKeeper(t testing.TB) (keeper.Keeper, sdk.Context, *EscrowMocks) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	memStoreKey := storetypes.NewMemoryStoreKey(types.MemStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(memStoreKey, storetypes.StoreTypeMemory, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(registry)

	mocks := &EscrowMocks{
		Bank:    NewMockBankKeeper(),
		Channel: NewMockChannelKeeper(),
		Scoped:  NewMockScopedKeeper(),
		Port:    NewMockPortKeeper(),
	}

	k := keeper.NewKeeper(
		cdc,
		storeKey,
		mocks.Bank,
		mocks.Channel,
		mocks.Port,
		mocks.Scoped,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Height: 1,
		Time:   time.Unix(1700000000, 0).UTC(),
	}, false, log.NewNopLogger())

	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return *k, ctx, mocks
}
