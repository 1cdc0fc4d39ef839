package vaultstake

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDisplayDecimals is the fractional precision used for rendered
// amounts unless a caller asks for another.
const DefaultDisplayDecimals int32 = 4

// Format renders a base-unit amount for display: fixed fractional
// precision, thousands separators on the integer part. Exact zero renders
// as "0.0000"; any nonzero amount below one display step renders as
// "<0.0001" rather than a misleading zero.
func Format(amount Amount, decimals int32, displayDecimals int32) string {
	if amount.IsZero() {
		return "0." + strings.Repeat("0", int(displayDecimals))
	}
	exponent := int64(decimals - displayDecimals)
	if exponent < 0 {
		exponent = 0
	}
	step := new(big.Int).Exp(big.NewInt(10), big.NewInt(exponent), nil)
	if amount.Int().Cmp(step) < 0 {
		return "<0." + strings.Repeat("0", int(displayDecimals)-1) + "1"
	}
	human := decimal.NewFromBigInt(amount.Int(), -decimals)
	fixed := human.Truncate(displayDecimals).StringFixed(displayDecimals)
	return groupThousands(fixed)
}

// FormatDefault renders with DefaultDisplayDecimals.
func FormatDefault(amount Amount, decimals int32) string {
	return Format(amount, decimals, DefaultDisplayDecimals)
}

// FormatPercent renders a percentage value (4.2) as "4.20%".
func FormatPercent(pct HumanAmount) string {
	return pct.Decimal().StringFixed(2) + "%"
}

func groupThousands(fixed string) string {
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")
	var out strings.Builder
	n := len(intPart)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteByte(intPart[i])
	}
	if hasFrac {
		out.WriteByte('.')
		out.WriteString(fracPart)
	}
	return out.String()
}
