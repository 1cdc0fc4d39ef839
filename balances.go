package vaultstake

import (
	"math/big"
	"time"
)

// BalanceSnapshot is one consistent view of a holder's position against
// the vault, all values non-negative base-unit integers. A snapshot is
// replaced wholesale on each refresh, never patched field by field, so
// readers can never observe a torn view.
type BalanceSnapshot struct {
	// Primary (underlying) asset balance
	PrimaryBalance Amount `json:"primary_balance"`
	// Vault share balance
	ShareBalance Amount `json:"share_balance"`
	// Value of the held shares in the primary asset
	ShareValueInPrimary Amount `json:"share_value_in_primary"`
	// Spend allowance granted to the vault on the primary asset
	Allowance Amount `json:"allowance"`

	// Stale is set when a refresh failed and these values carry over
	// from the last successful read.
	Stale     bool      `json:"stale,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsApproved reports whether any allowance is standing.
func (s *BalanceSnapshot) IsApproved() bool {
	return s.Allowance.Sign() > 0
}

// ValueOf converts a share amount into primary-asset value using this
// snapshot's ratio, flooring at base-unit resolution. Zero when the
// snapshot holds no shares.
func (s *BalanceSnapshot) ValueOf(shares Amount) Amount {
	if s.ShareBalance.IsZero() {
		return NewAmountFromUint64(0)
	}
	num := new(big.Int).Mul(shares.Int(), s.ShareValueInPrimary.Int())
	num.Div(num, s.ShareBalance.Int())
	return Amount(*num)
}

// VaultStats is the protocol-wide view refreshed on the slow cadence.
type VaultStats struct {
	// Total assets managed by the vault
	TotalAssets Amount `json:"total_assets"`
	// Primary-asset value of one whole share
	SharePrice Amount `json:"share_price"`
	// Displayed yield rate in percent, supplied by configuration
	APY HumanAmount `json:"apy"`

	Stale     bool      `json:"stale,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
