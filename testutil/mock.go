package testutil

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/client"
	"github.com/stretchr/testify/mock"
)

// MockedOracle returns a new mock for client.Oracle
type MockedOracle struct {
	mock.Mock
}

var _ client.Oracle = &MockedOracle{}

// Read executes a batch of contract reads, mocked
func (m *MockedOracle) Read(ctx context.Context, calls ...vs.ContractCall) ([][]byte, error) {
	args := m.Called(ctx, calls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]byte), args.Error(1)
}

// MockedSubmitter returns a new mock for client.Submitter
type MockedSubmitter struct {
	mock.Mock
}

var _ client.Submitter = &MockedSubmitter{}

// Submit broadcasts a signed transaction, mocked
func (m *MockedSubmitter) Submit(ctx context.Context, tx vs.SignedTx) (vs.TxHash, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(vs.TxHash), args.Error(1)
}

// MockedWatcher returns a new mock for client.Watcher
type MockedWatcher struct {
	mock.Mock
}

var _ client.Watcher = &MockedWatcher{}

// AwaitConfirmation resolves a submitted handle, mocked
func (m *MockedWatcher) AwaitConfirmation(ctx context.Context, hash vs.TxHash) (*client.Confirmation, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Confirmation), args.Error(1)
}

// MockedConnector returns a new mock for client.Connector
type MockedConnector struct {
	mock.Mock
	Addr vs.Address
}

var _ client.Connector = &MockedConnector{}

func (m *MockedConnector) Address() vs.Address {
	return m.Addr
}

// Sign produces a signed transaction for the call, mocked
func (m *MockedConnector) Sign(ctx context.Context, call vs.CallParams) (vs.SignedTx, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(vs.SignedTx), args.Error(1)
}

// StaticTx is a pre-signed transaction stub for tests.
type StaticTx struct {
	TxHash vs.TxHash
	Raw    []byte
}

var _ vs.SignedTx = &StaticTx{}

func (tx *StaticTx) Hash() vs.TxHash {
	return tx.TxHash
}

func (tx *StaticTx) Serialize() ([]byte, error) {
	return tx.Raw, nil
}

// ConfirmationFor builds a minimal successful confirmation.
func ConfirmationFor(hash vs.TxHash, confirmations int64) *client.Confirmation {
	return &client.Confirmation{
		Hash:          hash,
		BlockNumber:   1,
		Confirmations: confirmations,
		Status:        vs.TxStatusSuccess,
	}
}

// RevertedConfirmationFor builds a failed confirmation with a reason.
func RevertedConfirmationFor(hash vs.TxHash, reason string) *client.Confirmation {
	return &client.Confirmation{
		Hash:        hash,
		BlockNumber: 1,
		Status:      vs.TxStatusFailure,
		Error:       reason,
	}
}

// Word left-pads a value to a 32 byte EVM return word.
func Word(value uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(value).Bytes(), 32)
}

// AmountWord left-pads an amount to a 32 byte EVM return word.
func AmountWord(amount vs.Amount) []byte {
	return common.LeftPadBytes(amount.Int().Bytes(), 32)
}
