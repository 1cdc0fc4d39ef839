package vaultstake_test

import (
	. "github.com/openvault/vaultstake"
)

func (s *VaultStakeTestSuite) TestFormatZero() {
	require := s.Require()
	zero := NewAmountFromUint64(0)
	require.Equal("0.0000", Format(zero, 6, 4))
	require.Equal("0.00", Format(zero, 18, 2))
	require.Equal("0.0000", FormatDefault(zero, 18))
}

func (s *VaultStakeTestSuite) TestFormatBelowDisplayStep() {
	require := s.Require()
	// nonzero but below one display step renders as a floor marker,
	// never as a bare zero
	dust := NewAmountFromUint64(50)
	require.Equal("<0.0001", Format(dust, 6, 4))

	// exactly one display step renders normally
	step := NewAmountFromUint64(100)
	require.Equal("0.0001", Format(step, 6, 4))
}

func (s *VaultStakeTestSuite) TestFormatThousands() {
	require := s.Require()
	amount := NewAmountFromStr("1234567890123")
	require.Equal("1,234,567.8901", Format(amount, 6, 4))

	amount = NewAmountFromUint64(1_000_000)
	require.Equal("1.0000", Format(amount, 6, 4))

	amount = NewAmountFromUint64(999_999_999)
	require.Equal("999.9999", Format(amount, 6, 4))

	amount = NewAmountFromStr("25000000000")
	require.Equal("25,000.0000", Format(amount, 6, 4))
}

func (s *VaultStakeTestSuite) TestFormatTruncatesNotRounds() {
	require := s.Require()
	// 1.99999 truncates at the display precision, it does not round up
	amount := NewAmountFromUint64(1_999_990)
	require.Equal("1.9999", Format(amount, 6, 4))
}

func (s *VaultStakeTestSuite) TestFormatLowPrecisionToken() {
	require := s.Require()
	// token decimals below the display precision still render fixed
	amount := NewAmountFromUint64(999)
	require.Equal("9.9900", Format(amount, 2, 4))
}

func (s *VaultStakeTestSuite) TestFormatPercent() {
	require := s.Require()
	pct := NewHumanAmountFromFloat(4.2)
	require.Equal("4.20%", FormatPercent(pct))

	pct = NewHumanAmountFromFloat(0)
	require.Equal("0.00%", FormatPercent(pct))

	pct, _ = NewHumanAmountFromStr("12.345")
	require.Equal("12.35%", FormatPercent(pct))
}
