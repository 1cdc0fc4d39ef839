package flow

import (
	"context"
	"math/big"
	"sync"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/snapshot"
	"github.com/openvault/vaultstake/tracker"
)

// Step is the user-visible position of a flow.
type Step string

const (
	StepInput     Step = "input"
	StepApproving Step = "approving"
	StepExecuting Step = "executing"
	StepSuccess   Step = "success"
)

// Session owns everything the flows share: the injected connector, the
// transport clients and the snapshot service. Exactly one connector
// serves a session; there is no dynamic connector discovery.
type Session struct {
	connector client.Connector
	submitter client.Submitter
	watcher   client.Watcher
	snapshots *snapshot.Service
	poller    *snapshot.Poller
	vault     *vs.VaultConfig
	timeout   time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSession(
	oracle client.Oracle,
	submitter client.Submitter,
	watcher client.Watcher,
	connector client.Connector,
	chain *vs.ChainConfig,
	vault *vs.VaultConfig,
	polling *vs.PollingConfig,
) *Session {
	service := snapshot.NewService(oracle, connector.Address(), vault)
	return &Session{
		connector: connector,
		submitter: submitter,
		watcher:   watcher,
		snapshots: service,
		poller:    snapshot.NewPoller(service, polling),
		vault:     vault,
		timeout:   chain.ConfirmationTimeout,
	}
}

// Owner is the address the session signs for.
func (s *Session) Owner() vs.Address {
	return s.connector.Address()
}

// Snapshots exposes the balance/stats service.
func (s *Session) Snapshots() *snapshot.Service {
	return s.snapshots
}

// Poller exposes the background poller, for wiring update callbacks.
func (s *Session) Poller() *snapshot.Poller {
	return s.poller
}

func (s *Session) Vault() *vs.VaultConfig {
	return s.vault
}

// Start launches the background poller. Calling Start twice is a no-op.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		s.poller.Run(runCtx)
	}(s.done)
}

// Close stops the background poller and waits for it to exit.
func (s *Session) Close() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Session) NewStakeFlow(options ...StakeOption) (*StakeFlow, error) {
	args, err := NewStakeArgs(options...)
	if err != nil {
		return nil, err
	}
	return &StakeFlow{session: s, args: args, step: StepInput}, nil
}

func (s *Session) NewUnstakeFlow(options ...UnstakeOption) (*UnstakeFlow, error) {
	args, err := NewUnstakeArgs(options...)
	if err != nil {
		return nil, err
	}
	return &UnstakeFlow{session: s, args: args, step: StepInput}, nil
}

// newTracker builds a lifecycle tracker wired to invalidate the snapshot
// on confirmation, so balances refresh right after funds move.
func (s *Session) newTracker(call vs.CallParams) *tracker.Tracker {
	t := tracker.New(call, s.connector, s.submitter, s.watcher, s.timeout)
	t.OnConfirmed(func(*client.Confirmation) {
		s.snapshots.Invalidate()
	})
	return t
}

// estimateShares converts an asset amount into shares through the latest
// vault ratio, flooring at base-unit resolution. Par when no ratio has
// been read yet.
func (s *Session) estimateShares(assets vs.Amount) vs.Amount {
	stats := s.snapshots.CurrentStats()
	if stats.SharePrice.IsZero() {
		return assets
	}
	oneShare := vs.NewHumanAmountFromFloat(1).ToBase(s.vault.GetDecimals())
	num := new(big.Int).Mul(assets.Int(), oneShare.Int())
	num.Div(num, stats.SharePrice.Int())
	return vs.NewAmountFromBigInt(num)
}
