package vaultstake_test

import (
	. "github.com/openvault/vaultstake"
)

func (s *VaultStakeTestSuite) TestIsApproved() {
	require := s.Require()
	snapshot := &BalanceSnapshot{}
	require.False(snapshot.IsApproved())

	snapshot.Allowance = NewAmountFromUint64(1)
	require.True(snapshot.IsApproved())
}

func (s *VaultStakeTestSuite) TestValueOf() {
	require := s.Require()
	snapshot := &BalanceSnapshot{
		ShareBalance:        NewAmountFromUint64(100_000_000),
		ShareValueInPrimary: NewAmountFromUint64(150_000_000),
	}

	// half the shares are worth half the position value
	value := snapshot.ValueOf(NewAmountFromUint64(50_000_000))
	require.Equal("75000000", value.String())

	// full position
	value = snapshot.ValueOf(NewAmountFromUint64(100_000_000))
	require.Equal("150000000", value.String())

	// uneven ratios floor at base-unit resolution
	snapshot = &BalanceSnapshot{
		ShareBalance:        NewAmountFromUint64(3),
		ShareValueInPrimary: NewAmountFromUint64(100),
	}
	value = snapshot.ValueOf(NewAmountFromUint64(2))
	require.Equal("66", value.String())
}

func (s *VaultStakeTestSuite) TestValueOfNoShares() {
	require := s.Require()
	snapshot := &BalanceSnapshot{
		ShareValueInPrimary: NewAmountFromUint64(150_000_000),
	}
	value := snapshot.ValueOf(NewAmountFromUint64(50))
	require.True(value.IsZero())
}
