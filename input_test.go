package vaultstake_test

import (
	. "github.com/openvault/vaultstake"
)

func (s *VaultStakeTestSuite) TestSanitize() {
	require := s.Require()
	vectors := []struct {
		raw     string
		cleaned string
	}{
		{"100", "100"},
		{"1.5", "1.5"},
		{"1,5", "1.5"},
		{"1.2.3", "1.23"},
		{"1,2.3", "1.23"},
		{"..5", ".5"},
		{"abc12x.3y4", "12.34"},
		{" 1 000.25 ", "1000.25"},
		{"-5", "5"},
		{"", ""},
		{"...", "."},
	}
	for _, v := range vectors {
		require.Equal(v.cleaned, Sanitize(v.raw), "raw=%q", v.raw)
	}
}

func (s *VaultStakeTestSuite) TestParse() {
	require := s.Require()
	require.Equal("1500000", Parse("1.5", 6).String())
	require.Equal("2000000", Parse("2", 6).String())
	require.Equal("0", Parse("", 6).String())
	require.Equal("0", Parse(".", 6).String())
	require.Equal("0", Parse("abc", 6).String())
	require.Equal("0", Parse("-5", 6).String())
	// below base-unit resolution truncates to zero
	require.Equal("0", Parse("0.0000001", 6).String())
	require.Equal("500000", Parse(".5", 6).String())
}

func (s *VaultStakeTestSuite) TestFloorAndClamp() {
	require := s.Require()
	balance := NewAmountFromUint64(1_000_000_000) // 1000 tokens at 6 decimals

	// fractional entry floors to whole tokens
	amount := Parse("500.789", 6)
	require.Equal("500000000", FloorAndClamp(amount, balance, 6).String())

	// exceeding balance reduces silently to the balance itself
	amount = Parse("2000", 6)
	require.Equal("1000000000", FloorAndClamp(amount, balance, 6).String())

	// the clamp keeps the balance's fractional base units
	oddBalance := NewAmountFromUint64(999_999_999)
	amount = Parse("1500", 6)
	require.Equal("999999999", FloorAndClamp(amount, oddBalance, 6).String())

	// exact whole-token amounts under the balance pass through
	amount = Parse("7", 6)
	require.Equal("7000000", FloorAndClamp(amount, balance, 6).String())
}

func (s *VaultStakeTestSuite) TestPercentageToAmount() {
	require := s.Require()
	balance := NewAmountFromUint64(250_000_000)

	require.Equal("100000000", PercentageToAmount(40, balance).String())
	require.Equal("0", PercentageToAmount(0, balance).String())

	// 100 percent moves the exact balance, fractional base units included
	odd := NewAmountFromUint64(123_456_789)
	require.Equal("123456789", PercentageToAmount(100, odd).String())
	require.Equal("123456789", PercentageToAmount(150, odd).String())

	// floor on uneven division
	small := NewAmountFromUint64(10)
	require.Equal("3", PercentageToAmount(33, small).String())
}

func (s *VaultStakeTestSuite) TestNewAmountInput() {
	require := s.Require()
	balance := NewAmountFromUint64(10_000_000_000) // 10000 tokens at 6 decimals

	in := NewAmountInput("1,234.56", balance, 6)
	require.Equal("1,234.56", in.Raw)
	require.Equal("1.23456", in.Cleaned)
	require.Equal("1000000", in.Value.String())
	require.Equal("1", in.Display(6))
	require.False(in.IsZero())

	// sub-token entry floors to zero
	in = NewAmountInput("0.5", balance, 6)
	require.Equal("0", in.Value.String())
	require.True(in.IsZero())

	// garbage entry is zero, not an error
	in = NewAmountInput("zzz", balance, 6)
	require.Equal("", in.Cleaned)
	require.True(in.IsZero())

	// over-balance entry clamps
	in = NewAmountInput("999999", balance, 6)
	require.Equal("10000000000", in.Value.String())
	require.Equal("10000", in.Display(6))
}

func (s *VaultStakeTestSuite) TestNewPercentageInput() {
	require := s.Require()
	balance := NewAmountFromUint64(10_000_000)

	in := NewPercentageInput(50, balance, 6)
	require.Equal("5000000", in.Value.String())
	require.Equal("5", in.Raw)
	require.Equal("5", in.Cleaned)
	require.Equal("5", in.Display(6))

	in = NewPercentageInput(100, balance, 6)
	require.Equal("10000000", in.Value.String())
	require.Equal("10", in.Raw)

	// tiny balances render without invented precision
	in = NewPercentageInput(33, NewAmountFromUint64(10), 6)
	require.Equal("3", in.Value.String())
	require.Equal("0.000003", in.Raw)
}
