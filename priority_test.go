package vaultstake_test

import (
	"time"

	. "github.com/openvault/vaultstake"
)

func (s *VaultStakeTestSuite) TestNewPriority() {
	require := s.Require()
	for _, name := range []string{"low", "market", "aggressive", "very-aggressive"} {
		p, err := NewPriority(name)
		require.NoError(err)
		require.True(p.IsEnum())
	}

	custom, err := NewPriority("1.25")
	require.NoError(err)
	require.False(custom.IsEnum())

	_, err = NewPriority("bogus")
	require.Error(err)
}

func (s *VaultStakeTestSuite) TestPriorityDefaults() {
	require := s.Require()
	vectors := []struct {
		priority   GasFeePriority
		multiplier string
	}{
		{Low, "0.7"},
		{Market, "1"},
		{Aggressive, "1.5"},
		{VeryAggressive, "2"},
		{GasFeePriority("3.5"), "3.5"},
	}
	for _, v := range vectors {
		mult, err := v.priority.GetDefault()
		require.NoError(err)
		require.Equal(v.multiplier, mult.String())
	}

	_, err := GasFeePriority("junk").GetDefault()
	require.Error(err)
}

func (s *VaultStakeTestSuite) TestCheckFeeLimit() {
	require := s.Require()
	feeLimit, _ := NewHumanAmountFromStr("0.05")
	chain := &ChainConfig{
		Chain:               "ethereum",
		URL:                 "http://localhost:8545",
		ChainID:             1,
		FeeLimit:            feeLimit,
		ConfirmationTimeout: time.Minute,
	}

	// 0.04 native, under the 0.05 limit
	under := NewAmountFromStr("40000000000000000")
	require.NoError(CheckFeeLimit(under, chain))

	// exactly at the limit is permitted
	exact := NewAmountFromStr("50000000000000000")
	require.NoError(CheckFeeLimit(exact, chain))

	// 0.06 native, over the limit
	over := NewAmountFromStr("60000000000000000")
	err := CheckFeeLimit(over, chain)
	require.Error(err)
	require.Contains(err.Error(), "greater than the current limit")
	require.Contains(err.Error(), "0.05")
}
