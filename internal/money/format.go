package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount converts a base-unit amount to the display currency and
// renders it as an unsigned, comma-grouped number string. Zero-decimal
// currencies (the yen) get no fraction; everything else gets two decimals.
// The sign and the currency symbol are applied by the caller.
func FormatAmount(baseAmount float64, c Currency) string {
	converted := math.Abs(ToDisplay(baseAmount, c))

	places := int32(2)
	if c.Symbol == "¥" {
		places = 0
	}

	fixed := decimal.NewFromFloat(converted).StringFixed(places)
	return groupThousands(fixed)
}

// FormatQuantity renders a share quantity: whole numbers without decimals,
// fractional quantities (crypto) with up to 6 decimals, trailing zeros
// stripped.
func FormatQuantity(q float64) string {
	if math.Round(q) == q {
		return strconv.FormatFloat(math.Round(q), 'f', -1, 64)
	}
	s := strconv.FormatFloat(q, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}

// groupThousands inserts comma separators into the integer part of a
// non-negative fixed-decimal string.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if hasFrac {
		return intPart + "." + fracPart
	}
	return intPart
}
