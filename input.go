package vaultstake

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Sanitize reduces raw user text to digits and at most one decimal
// separator. Comma separators are unified to a dot. When more than one
// separator appears, the first wins and any later digits are appended to
// the fractional part ("1.2.3" becomes "1.23").
func Sanitize(raw string) string {
	var out strings.Builder
	seenSeparator := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			out.WriteRune(r)
		case r == '.' || r == ',':
			if !seenSeparator {
				out.WriteByte('.')
				seenSeparator = true
			}
		}
	}
	return out.String()
}

// Parse converts sanitized text to a base-unit amount. Empty or invalid
// text yields zero; parse failures are absorbed here, never surfaced.
func Parse(cleaned string, decimals int32) Amount {
	if cleaned == "" || cleaned == "." {
		return NewAmountFromUint64(0)
	}
	dec, err := decimal.NewFromString(cleaned)
	if err != nil || dec.IsNegative() {
		return NewAmountFromUint64(0)
	}
	return HumanAmount(dec).ToBase(decimals)
}

// FloorAndClamp truncates a base-unit amount down to a whole number of
// tokens, then clamps it to balance. Fractional typed amounts round down
// to whole units in both the stake and unstake flows; exceeding the
// balance is not an error, the amount is silently reduced to it.
func FloorAndClamp(amount Amount, balance Amount, decimals int32) Amount {
	floored := amount.FloorToToken(decimals)
	if floored.Cmp(&balance) > 0 {
		return NewAmountFromBigInt(balance.Int())
	}
	return floored
}

// PercentageToAmount returns floor(balance * pct / 100) clamped to
// balance. At 100 the result is exactly the balance, fractional base
// units included, so a max entry always moves the full balance.
func PercentageToAmount(pct uint64, balance Amount) Amount {
	if pct >= 100 {
		return NewAmountFromBigInt(balance.Int())
	}
	product := new(big.Int).Mul(balance.Int(), new(big.Int).SetUint64(pct))
	product.Div(product, big.NewInt(100))
	return Amount(*product)
}

// AmountInput is one unit of user amount entry: the raw text, the
// sanitized text, and the base-unit value derived from it.
type AmountInput struct {
	Raw     string
	Cleaned string
	Value   Amount
}

// NewAmountInput runs the full input pipeline against a balance:
// sanitize, parse, floor to whole tokens, clamp.
func NewAmountInput(raw string, balance Amount, decimals int32) AmountInput {
	cleaned := Sanitize(raw)
	parsed := Parse(cleaned, decimals)
	value := FloorAndClamp(parsed, balance, decimals)
	return AmountInput{
		Raw:     raw,
		Cleaned: cleaned,
		Value:   value,
	}
}

// NewPercentageInput derives an input from a percentage of the balance.
func NewPercentageInput(pct uint64, balance Amount, decimals int32) AmountInput {
	value := PercentageToAmount(pct, balance)
	human := value.ToHuman(decimals)
	return AmountInput{
		Raw:     human.String(),
		Cleaned: human.String(),
		Value:   value,
	}
}

// Display renders the carried value for redisplay in an input field. The
// text never implies more precision than the value itself: whole-token
// values render without fractional noise.
func (in AmountInput) Display(decimals int32) string {
	return in.Value.ToHuman(decimals).String()
}

// IsZero reports whether the post-clamp value is zero.
func (in AmountInput) IsZero() bool {
	return in.Value.IsZero()
}
