package snapshot

import (
	"context"
	"sync"
	"time"

	vs "github.com/openvault/vaultstake"
	"github.com/openvault/vaultstake/chain/evm/abi/erc4626"
	"github.com/openvault/vaultstake/client"
	"github.com/openvault/vaultstake/client/errors"
)

// Service maintains the holder's balance snapshot and the vault-wide
// stats. Snapshots are replaced wholesale on successful refresh; a failed
// refresh keeps the previous values and marks them stale.
type Service struct {
	oracle client.Oracle
	owner  vs.Address
	vault  *vs.VaultConfig

	invalidated chan struct{}

	mu       sync.Mutex
	balances vs.BalanceSnapshot
	stats    vs.VaultStats
}

func NewService(oracle client.Oracle, owner vs.Address, vault *vs.VaultConfig) *Service {
	return &Service{
		oracle:      oracle,
		owner:       owner,
		vault:       vault,
		invalidated: make(chan struct{}, 1),
	}
}

// Current returns the latest balance snapshot.
func (s *Service) Current() vs.BalanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances
}

// CurrentStats returns the latest vault stats.
func (s *Service) CurrentStats() vs.VaultStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Invalidate marks the current snapshot stale and wakes the poller for an
// immediate refresh, typically after a confirmed transaction moved funds.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.balances.Stale = true
	s.mu.Unlock()
	select {
	case s.invalidated <- struct{}{}:
	default:
	}
}

// Invalidated signals that an immediate refresh was requested.
func (s *Service) Invalidated() <-chan struct{} {
	return s.invalidated
}

// Refresh performs one two-phase read of the holder position. The first
// batch reads the asset balance, the share balance and the standing
// allowance in a single round trip. The share valuation depends on the
// share balance and goes out as a second round trip. Any failure keeps
// the previous snapshot and returns it marked stale.
func (s *Service) Refresh(ctx context.Context) (vs.BalanceSnapshot, error) {
	calls, err := s.balanceCalls()
	if err != nil {
		return s.keepStale(), err
	}

	results, err := s.oracle.Read(ctx, calls...)
	if err != nil {
		return s.keepStale(), err
	}
	if len(results) != len(calls) {
		return s.keepStale(), errors.Readf("expected %d read results, got %d", len(calls), len(results))
	}

	primaryBalance, err := erc4626.DecodeUint256(results[0])
	if err != nil {
		return s.keepStale(), errors.Readf("decoding asset balance: %v", err)
	}
	shareBalance, err := erc4626.DecodeUint256(results[1])
	if err != nil {
		return s.keepStale(), errors.Readf("decoding share balance: %v", err)
	}
	allowance, err := erc4626.DecodeUint256(results[2])
	if err != nil {
		return s.keepStale(), errors.Readf("decoding allowance: %v", err)
	}

	valueResults, err := s.oracle.Read(ctx, vs.ContractCall{
		Contract: vs.ContractAddress(s.vault.VaultContract),
		Data:     erc4626.ConvertToAssets(shareBalance),
	})
	if err != nil {
		return s.keepStale(), err
	}
	if len(valueResults) != 1 {
		return s.keepStale(), errors.Readf("expected 1 read result, got %d", len(valueResults))
	}
	shareValue, err := erc4626.DecodeUint256(valueResults[0])
	if err != nil {
		return s.keepStale(), errors.Readf("decoding share value: %v", err)
	}

	next := vs.BalanceSnapshot{
		PrimaryBalance:      primaryBalance,
		ShareBalance:        shareBalance,
		ShareValueInPrimary: shareValue,
		Allowance:           allowance,
		UpdatedAt:           time.Now(),
	}
	s.mu.Lock()
	s.balances = next
	s.mu.Unlock()
	return next, nil
}

// RefreshStats reads the vault-wide figures: total managed assets and the
// primary-asset value of one whole share. The APY is carried over from
// configuration, it is display-only.
func (s *Service) RefreshStats(ctx context.Context) (vs.VaultStats, error) {
	oneShare := vs.NewHumanAmountFromFloat(1).ToBase(s.vault.GetDecimals())
	results, err := s.oracle.Read(ctx,
		vs.ContractCall{Contract: vs.ContractAddress(s.vault.VaultContract), Data: erc4626.TotalAssets()},
		vs.ContractCall{Contract: vs.ContractAddress(s.vault.VaultContract), Data: erc4626.ConvertToAssets(oneShare)},
	)
	if err != nil {
		return s.keepStaleStats(), err
	}
	if len(results) != 2 {
		return s.keepStaleStats(), errors.Readf("expected 2 read results, got %d", len(results))
	}

	totalAssets, err := erc4626.DecodeUint256(results[0])
	if err != nil {
		return s.keepStaleStats(), errors.Readf("decoding total assets: %v", err)
	}
	sharePrice, err := erc4626.DecodeUint256(results[1])
	if err != nil {
		return s.keepStaleStats(), errors.Readf("decoding share price: %v", err)
	}

	next := vs.VaultStats{
		TotalAssets: totalAssets,
		SharePrice:  sharePrice,
		APY:         s.vault.APY,
		UpdatedAt:   time.Now(),
	}
	s.mu.Lock()
	s.stats = next
	s.mu.Unlock()
	return next, nil
}

func (s *Service) balanceCalls() ([]vs.ContractCall, error) {
	balanceOf, err := erc4626.BalanceOf(s.owner)
	if err != nil {
		return nil, errors.Validationf("bad owner address %s: %v", s.owner, err)
	}
	allowance, err := erc4626.Allowance(s.owner, vs.Address(s.vault.VaultContract))
	if err != nil {
		return nil, errors.Validationf("bad vault address %s: %v", s.vault.VaultContract, err)
	}
	return []vs.ContractCall{
		{Contract: vs.ContractAddress(s.vault.AssetContract), Data: balanceOf},
		{Contract: vs.ContractAddress(s.vault.VaultContract), Data: balanceOf},
		{Contract: vs.ContractAddress(s.vault.AssetContract), Data: allowance},
	}, nil
}

func (s *Service) keepStale() vs.BalanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances.Stale = true
	return s.balances
}

func (s *Service) keepStaleStats() vs.VaultStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Stale = true
	return s.stats
}
