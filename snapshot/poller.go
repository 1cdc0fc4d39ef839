package snapshot

import (
	"context"
	"sync"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/sirupsen/logrus"
)

// Poller refreshes the balance snapshot and the vault stats on two
// independent cadences. In-flight transactions never pause the cadence;
// they only request an extra refresh through Service.Invalidate.
type Poller struct {
	service      *Service
	balanceEvery time.Duration
	statsEvery   time.Duration

	mu        sync.Mutex
	onBalance []func(vs.BalanceSnapshot)
	onStats   []func(vs.VaultStats)
}

func NewPoller(service *Service, cfg *vs.PollingConfig) *Poller {
	return &Poller{
		service:      service,
		balanceEvery: cfg.BalanceInterval,
		statsEvery:   cfg.StatsInterval,
	}
}

// OnBalance registers a callback invoked after every balance refresh,
// including stale ones.
func (p *Poller) OnBalance(fn func(vs.BalanceSnapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onBalance = append(p.onBalance, fn)
}

// OnStats registers a callback invoked after every stats refresh.
func (p *Poller) OnStats(fn func(vs.VaultStats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onStats = append(p.onStats, fn)
}

// Run polls until the context is cancelled. An invalidated snapshot
// triggers an immediate balance refresh without resetting the cadence.
func (p *Poller) Run(ctx context.Context) {
	balanceTicker := time.NewTicker(p.balanceEvery)
	defer balanceTicker.Stop()
	statsTicker := time.NewTicker(p.statsEvery)
	defer statsTicker.Stop()

	p.refreshBalances(ctx)
	p.refreshStats(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-balanceTicker.C:
			p.refreshBalances(ctx)
		case <-p.service.Invalidated():
			p.refreshBalances(ctx)
		case <-statsTicker.C:
			p.refreshStats(ctx)
		}
	}
}

func (p *Poller) refreshBalances(ctx context.Context) {
	snap, err := p.service.Refresh(ctx)
	if err != nil {
		logrus.WithError(err).Warn("could not refresh balances")
	}
	p.mu.Lock()
	callbacks := make([]func(vs.BalanceSnapshot), len(p.onBalance))
	copy(callbacks, p.onBalance)
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn(snap)
	}
}

func (p *Poller) refreshStats(ctx context.Context) {
	stats, err := p.service.RefreshStats(ctx)
	if err != nil {
		logrus.WithError(err).Warn("could not refresh vault stats")
	}
	p.mu.Lock()
	callbacks := make([]func(vs.VaultStats), len(p.onStats))
	copy(callbacks, p.onStats)
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn(stats)
	}
}
