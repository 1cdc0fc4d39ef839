package snapshot_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/snapshot"
	"github.com/openvault/vaultstake/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPollerDeliversUpdates(t *testing.T) {
	oracle, service := newService()
	oracle.On("Read", mock.Anything, anyBatchOf(3)).Return([][]byte{
		testutil.Word(1_000),
		testutil.Word(2_000),
		testutil.Word(3_000),
	}, nil)
	oracle.On("Read", mock.Anything, anyBatchOf(1)).Return([][]byte{
		testutil.Word(2_100),
	}, nil)
	oracle.On("Read", mock.Anything, anyBatchOf(2)).Return([][]byte{
		testutil.Word(9_000),
		testutil.Word(1_001),
	}, nil)

	poller := snapshot.NewPoller(service, &vs.PollingConfig{
		BalanceInterval: 20 * time.Millisecond,
		StatsInterval:   50 * time.Millisecond,
	})
	var balanceUpdates, statsUpdates atomic.Int32
	poller.OnBalance(func(vs.BalanceSnapshot) { balanceUpdates.Add(1) })
	poller.OnStats(func(vs.VaultStats) { statsUpdates.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 130*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	// an invalidation mid-run triggers an extra refresh on top of the cadence
	time.Sleep(40 * time.Millisecond)
	service.Invalidate()
	<-done

	require.GreaterOrEqual(t, balanceUpdates.Load(), int32(4))
	require.GreaterOrEqual(t, statsUpdates.Load(), int32(2))
}
