package vaultstake

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultDecimals is the decimal precision used when a vault does not
// report its own (standard ERC20/ERC4626 tokens use 18).
const DefaultDecimals int32 = 18

// Amount is a big integer amount in base units (wei-style), as contracts
// expect it in calldata.
type Amount big.Int

// HumanAmount is a decimal amount in whole-token units, as a human expects
// it for readability.
type HumanAmount decimal.Decimal

func (amount Amount) Bytes() []byte {
	bigInt := big.Int(amount)
	return bigInt.Bytes()
}

func (amount Amount) String() string {
	bigInt := big.Int(amount)
	return bigInt.String()
}

// Int converts an Amount into *big.Int
func (amount Amount) Int() *big.Int {
	bigInt := big.Int(amount)
	return &bigInt
}

func (amount Amount) Sign() int {
	bigInt := big.Int(amount)
	return bigInt.Sign()
}

// Uint64 converts an Amount into uint64
func (amount Amount) Uint64() uint64 {
	bigInt := big.Int(amount)
	return bigInt.Uint64()
}

// Use the underlying big.Int.Cmp()
func (amount *Amount) Cmp(other *Amount) int {
	return amount.Int().Cmp(other.Int())
}

// Use the underlying big.Int.Add()
func (amount *Amount) Add(x *Amount) Amount {
	sum := new(big.Int)
	sum.Set((*big.Int)(amount))
	return Amount(*sum.Add(sum, x.Int()))
}

// Use the underlying big.Int.Sub()
func (amount *Amount) Sub(x *Amount) Amount {
	diff := new(big.Int)
	diff.Set((*big.Int)(amount))
	return Amount(*diff.Sub(diff, x.Int()))
}

// Use the underlying big.Int.Mul()
func (amount *Amount) Mul(x *Amount) Amount {
	prod := new(big.Int)
	prod.Set((*big.Int)(amount))
	return Amount(*prod.Mul(prod, x.Int()))
}

// Use the underlying big.Int.Div()
func (amount *Amount) Div(x *Amount) Amount {
	quot := new(big.Int)
	quot.Set((*big.Int)(amount))
	return Amount(*quot.Div(quot, x.Int()))
}

var zero = big.NewInt(0)

func (amount *Amount) IsZero() bool {
	return amount.Int().Cmp(zero) == 0
}

func (amount *Amount) ToHuman(decimals int32) HumanAmount {
	dec := decimal.NewFromBigInt(amount.Int(), -decimals)
	return HumanAmount(dec)
}

// FloorToToken floors the amount down to a whole number of tokens,
// dropping any fractional base units below 10^decimals.
func (amount *Amount) FloorToToken(decimals int32) Amount {
	unit := tokenUnit(decimals)
	floored := new(big.Int)
	floored.Set((*big.Int)(amount))
	floored.Div(floored, unit)
	floored.Mul(floored, unit)
	return Amount(*floored)
}

func tokenUnit(decimals int32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// NewAmountFromUint64 creates a new Amount from a uint64
func NewAmountFromUint64(u64 uint64) Amount {
	bigInt := new(big.Int).SetUint64(u64)
	return Amount(*bigInt)
}

// NewAmountFromBigInt creates a new Amount copying the given big.Int
func NewAmountFromBigInt(i *big.Int) Amount {
	cpy := new(big.Int)
	if i != nil {
		cpy.Set(i)
	}
	return Amount(*cpy)
}

// NewAmountFromStr creates a new Amount from an integer string,
// returning zero for anything unparseable.
func NewAmountFromStr(str string) Amount {
	var ok bool
	var bigInt *big.Int
	bigInt, ok = new(big.Int).SetString(str, 0)
	if !ok {
		return NewAmountFromUint64(0)
	}
	return Amount(*bigInt)
}

// NewHumanAmountFromStr creates a new HumanAmount from a string
func NewHumanAmountFromStr(str string) (HumanAmount, error) {
	dec, err := decimal.NewFromString(str)
	return HumanAmount(dec), err
}

// NewHumanAmountFromFloat creates a new HumanAmount from a float
func NewHumanAmountFromFloat(float float64) HumanAmount {
	return HumanAmount(decimal.NewFromFloat(float))
}

func (amount HumanAmount) Decimal() decimal.Decimal {
	return decimal.Decimal(amount)
}

func (amount HumanAmount) ToBase(decimals int32) Amount {
	factor := decimal.NewFromInt32(10).Pow(decimal.NewFromInt32(decimals))
	raised := ((decimal.Decimal)(amount)).Mul(factor)
	return Amount(*raised.BigInt())
}

func (amount HumanAmount) String() string {
	return decimal.Decimal(amount).String()
}

func (amount HumanAmount) Div(x HumanAmount) HumanAmount {
	return HumanAmount(decimal.Decimal(amount).Div(decimal.Decimal(x)))
}

func (amount HumanAmount) Mul(x HumanAmount) HumanAmount {
	return HumanAmount(decimal.Decimal(amount).Mul(decimal.Decimal(x)))
}

var _ json.Marshaler = HumanAmount{}
var _ json.Unmarshaler = &HumanAmount{}
var _ yaml.Unmarshaler = &HumanAmount{}
var _ yaml.Marshaler = HumanAmount{}
var _ yaml.IsZeroer = HumanAmount{}

func (b HumanAmount) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func (b HumanAmount) IsZero() bool {
	return decimal.Decimal(b).IsZero()
}

func (b *HumanAmount) UnmarshalYAML(node *yaml.Node) error {
	value := node.Value
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "\"")
	value = strings.TrimSuffix(value, "\"")
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid decimal amount: %v", err)
	}
	*b = HumanAmount(dec)
	return nil
}

func (b HumanAmount) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *HumanAmount) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	dec, err := decimal.NewFromString(str)
	if err != nil {
		return err
	}
	*b = HumanAmount(dec)
	return nil
}

var _ json.Marshaler = Amount{}
var _ json.Unmarshaler = &Amount{}

func (b Amount) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *Amount) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	var z big.Int
	_, ok := z.SetString(str, 0)
	if !ok {
		return fmt.Errorf("not a valid big integer: %s", p)
	}
	*b = Amount(z)
	return nil
}
