package tracker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
	"github.com/openvault/vaultstake/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testCall = vs.CallParams{
	Kind:     vs.TxDeposit,
	Contract: vs.ContractAddress("0x2000000000000000000000000000000000000002"),
	Data:     []byte{0x6e, 0x55, 0x3f, 0x65},
}

const testHash = vs.TxHash("0xabc123")

type trackerFixture struct {
	connector *testutil.MockedConnector
	submitter *testutil.MockedSubmitter
	watcher   *testutil.MockedWatcher
	tracker   *Tracker
}

func newTrackerFixture(timeout time.Duration) *trackerFixture {
	f := &trackerFixture{
		connector: &testutil.MockedConnector{Addr: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		submitter: new(testutil.MockedSubmitter),
		watcher:   new(testutil.MockedWatcher),
	}
	f.tracker = New(testCall, f.connector, f.submitter, f.watcher, timeout)
	return f
}

func (f *trackerFixture) expectHappySubmission() {
	f.connector.On("Sign", mock.Anything, testCall).
		Return(&testutil.StaticTx{TxHash: testHash}, nil)
	f.submitter.On("Submit", mock.Anything, mock.Anything).Return(testHash, nil)
}

func TestRunHappyPath(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.expectHappySubmission()
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(testutil.ConfirmationFor(testHash, 3), nil)

	var confirmed atomic.Int32
	fx.tracker.OnConfirmed(func(*client.Confirmation) { confirmed.Add(1) })

	require.Equal(t, Idle, fx.tracker.State())
	conf, err := fx.tracker.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, Confirmed, fx.tracker.State())
	require.Equal(t, int64(3), conf.Confirmations)
	require.Equal(t, int32(1), confirmed.Load())

	handle := fx.tracker.Handle()
	require.Equal(t, vs.TxDeposit, handle.Kind)
	require.Equal(t, testHash, handle.TxHash)
	require.Empty(t, handle.Error)
	require.NoError(t, fx.tracker.Err())

	stored, ok := fx.tracker.Confirmation()
	require.True(t, ok)
	require.Equal(t, testHash, stored.Hash)
}

func TestRunSignFailure(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.connector.On("Sign", mock.Anything, testCall).
		Return(nil, errors.Submitf("wallet rejected request"))

	_, err := fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.SubmitError, errors.StatusOf(err))
	require.Equal(t, Failed, fx.tracker.State())
	require.Empty(t, fx.tracker.Handle().TxHash)
	fx.submitter.AssertNumberOfCalls(t, "Submit", 0)
}

func TestRunBroadcastFailureKeepsClassifiedStatus(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.connector.On("Sign", mock.Anything, testCall).
		Return(&testutil.StaticTx{TxHash: testHash}, nil)
	fx.submitter.On("Submit", mock.Anything, mock.Anything).
		Return(vs.TxHash(""), errors.TransactionExistsf("already known"))

	_, err := fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.TransactionExists, errors.StatusOf(err))
	require.Equal(t, Failed, fx.tracker.State())
}

func TestRunRevertedTransaction(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.expectHappySubmission()
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(testutil.RevertedConfirmationFor(testHash, "execution reverted"), nil)

	_, err := fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.ConfirmationError, errors.StatusOf(err))
	require.Contains(t, err.Error(), "reverted")
	require.Equal(t, Failed, fx.tracker.State())
	// the handle survived the failure for display
	require.Equal(t, testHash, fx.tracker.Handle().TxHash)
}

func TestRunAppliesConfirmationTimeout(t *testing.T) {
	fx := newTrackerFixture(time.Minute)
	fx.expectHappySubmission()
	var sawDeadline bool
	fx.watcher.On("AwaitConfirmation", mock.MatchedBy(func(ctx context.Context) bool {
		_, sawDeadline = ctx.Deadline()
		return true
	}), testHash).Return(testutil.ConfirmationFor(testHash, 2), nil)

	_, err := fx.tracker.Run(context.Background())
	require.NoError(t, err)
	require.True(t, sawDeadline)
}

func TestRunWatcherTimeoutStatus(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.expectHappySubmission()
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(nil, errors.TransactionTimedOutf("no confirmation within deadline"))

	_, err := fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.TransactionTimedOut, errors.StatusOf(err))
	require.True(t, errors.IsConfirmationFailure(err))
	require.Equal(t, Failed, fx.tracker.State())
}

func TestRetryOnlyFromFailed(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.expectHappySubmission()
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(testutil.ConfirmationFor(testHash, 2), nil)

	// nothing failed yet
	_, err := fx.tracker.Retry(context.Background())
	require.Error(t, err)
	require.Equal(t, errors.ValidationError, errors.StatusOf(err))

	_, err = fx.tracker.Run(context.Background())
	require.NoError(t, err)

	// a confirmed tracker cannot retry or run again
	_, err = fx.tracker.Retry(context.Background())
	require.Error(t, err)
	_, err = fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, Confirmed, fx.tracker.State())
}

func TestRetryReusesIdenticalCall(t *testing.T) {
	fx := newTrackerFixture(0)
	var signedCalls []vs.CallParams
	fx.connector.On("Sign", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			signedCalls = append(signedCalls, args.Get(1).(vs.CallParams))
		}).
		Return(&testutil.StaticTx{TxHash: testHash}, nil)
	fx.submitter.On("Submit", mock.Anything, mock.Anything).Return(testHash, nil)
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(nil, errors.Confirmationf("dropped from mempool")).Once()
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).
		Return(testutil.ConfirmationFor(testHash, 2), nil)

	_, err := fx.tracker.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, Failed, fx.tracker.State())

	conf, err := fx.tracker.Retry(context.Background())
	require.NoError(t, err)
	require.Equal(t, Confirmed, fx.tracker.State())
	require.Equal(t, testHash, conf.Hash)

	require.Len(t, signedCalls, 2)
	require.Equal(t, signedCalls[0], signedCalls[1])
}

func TestConfirmedIsTerminalAndIdempotent(t *testing.T) {
	fx := newTrackerFixture(0)
	fx.expectHappySubmission()
	first := testutil.ConfirmationFor(testHash, 2)
	fx.watcher.On("AwaitConfirmation", mock.Anything, testHash).Return(first, nil)

	var confirmed atomic.Int32
	fx.tracker.OnConfirmed(func(*client.Confirmation) { confirmed.Add(1) })
	_, err := fx.tracker.Run(context.Background())
	require.NoError(t, err)

	// a redelivered confirmation is dropped without firing callbacks
	duplicate := testutil.ConfirmationFor(testHash, 9)
	require.False(t, fx.tracker.lock.confirm(duplicate))
	require.Equal(t, int32(1), confirmed.Load())
	stored, ok := fx.tracker.Confirmation()
	require.True(t, ok)
	require.Equal(t, int64(2), stored.Confirmations)

	// a late failure signal cannot leave the terminal state
	fx.tracker.lock.fail(errors.Confirmationf("late failure"))
	require.Equal(t, Confirmed, fx.tracker.State())
	require.NoError(t, fx.tracker.Err())
}
