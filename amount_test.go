package vaultstake_test

import (
	"encoding/json"
	"math/big"

	. "github.com/openvault/vaultstake"
	"gopkg.in/yaml.v3"
)

func (s *VaultStakeTestSuite) TestNewAmountFromUint64() {
	require := s.Require()
	amount := NewAmountFromUint64(123)
	require.Equal(uint64(123), amount.Uint64())
	require.Equal("123", amount.String())
	require.Equal(1, amount.Sign())
}

func (s *VaultStakeTestSuite) TestNewAmountFromStr() {
	require := s.Require()
	amount := NewAmountFromStr("10")
	require.Equal("10", amount.String())

	amount = NewAmountFromStr("10000000000000000000000")
	require.Equal("10000000000000000000000", amount.String())

	amount = NewAmountFromStr("")
	require.Equal("0", amount.String())

	amount = NewAmountFromStr("invalid")
	require.Equal("0", amount.String())
}

func (s *VaultStakeTestSuite) TestNewAmountFromBigIntCopies() {
	require := s.Require()
	src := big.NewInt(500)
	amount := NewAmountFromBigInt(src)
	src.SetInt64(999)
	require.Equal("500", amount.String())

	amount = NewAmountFromBigInt(nil)
	require.Equal("0", amount.String())
}

func (s *VaultStakeTestSuite) TestAmountArithmetic() {
	require := s.Require()
	a := NewAmountFromUint64(300)
	b := NewAmountFromUint64(200)

	require.Equal("500", a.Add(&b).String())
	require.Equal("100", a.Sub(&b).String())
	require.Equal("60000", a.Mul(&b).String())
	require.Equal("1", a.Div(&b).String())

	// operands are untouched
	require.Equal("300", a.String())
	require.Equal("200", b.String())

	require.Equal(1, a.Cmp(&b))
	require.Equal(-1, b.Cmp(&a))
	require.Equal(0, a.Cmp(&a))
}

func (s *VaultStakeTestSuite) TestAmountIsZero() {
	require := s.Require()
	zero := NewAmountFromUint64(0)
	one := NewAmountFromUint64(1)
	require.True(zero.IsZero())
	require.False(one.IsZero())
}

func (s *VaultStakeTestSuite) TestAmountToHuman() {
	require := s.Require()
	amount := NewAmountFromUint64(1_230_000)
	require.Equal("1.23", amount.ToHuman(6).String())
	require.Equal("1230000", amount.ToHuman(0).String())
}

func (s *VaultStakeTestSuite) TestHumanAmountToBase() {
	require := s.Require()
	human, err := NewHumanAmountFromStr("1.23")
	require.NoError(err)
	require.Equal("1230000", human.ToBase(6).String())

	human, err = NewHumanAmountFromStr("10.3")
	require.NoError(err)
	require.Equal("10.3", human.String())

	_, err = NewHumanAmountFromStr("invalid")
	require.Error(err)

	human = NewHumanAmountFromFloat(1.5)
	require.Equal("1500000000000000000", human.ToBase(18).String())
}

func (s *VaultStakeTestSuite) TestFloorToToken() {
	require := s.Require()
	amount := NewAmountFromUint64(1_999_999)
	require.Equal("1000000", amount.FloorToToken(6).String())

	amount = NewAmountFromUint64(999_999)
	require.Equal("0", amount.FloorToToken(6).String())

	amount = NewAmountFromUint64(5_000_000)
	require.Equal("5000000", amount.FloorToToken(6).String())
}

func (s *VaultStakeTestSuite) TestAmountJSON() {
	require := s.Require()
	amount := NewAmountFromUint64(123)
	bz, err := json.Marshal(amount)
	require.NoError(err)
	require.Equal(`"123"`, string(bz))

	var back Amount
	require.NoError(json.Unmarshal([]byte(`"456"`), &back))
	require.Equal("456", back.String())

	require.NoError(json.Unmarshal([]byte(`null`), &back))
	require.Equal("456", back.String())

	require.Error(json.Unmarshal([]byte(`"not-a-number"`), &back))
}

func (s *VaultStakeTestSuite) TestHumanAmountJSON() {
	require := s.Require()
	human, _ := NewHumanAmountFromStr("10.3")
	bz, err := json.Marshal(human)
	require.NoError(err)
	require.Equal(`"10.3"`, string(bz))

	var back HumanAmount
	require.NoError(json.Unmarshal([]byte(`"0.05"`), &back))
	require.Equal("0.05", back.String())

	require.Error(json.Unmarshal([]byte(`"abc"`), &back))
}

func (s *VaultStakeTestSuite) TestHumanAmountYAML() {
	require := s.Require()
	var out struct {
		Fee HumanAmount `yaml:"fee"`
	}
	require.NoError(yaml.Unmarshal([]byte(`fee: "0.05"`), &out))
	require.Equal("0.05", out.Fee.String())

	require.NoError(yaml.Unmarshal([]byte(`fee: 1.5`), &out))
	require.Equal("1.5", out.Fee.String())

	bz, err := yaml.Marshal(out)
	require.NoError(err)
	require.Contains(string(bz), "1.5")

	require.Error(yaml.Unmarshal([]byte(`fee: abc`), &out))
}

func (s *VaultStakeTestSuite) TestHumanAmountMath() {
	require := s.Require()
	a, _ := NewHumanAmountFromStr("10")
	b, _ := NewHumanAmountFromStr("4")
	require.Equal("2.5", a.Div(b).String())
	require.Equal("40", a.Mul(b).String())
	require.Equal("10", a.Decimal().String())
}
