package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is what every price on the site is quoted in.
const DefaultCurrency = "AED"

// FormatMoney rounds to two decimals for display. Arithmetic never rounds.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatPrice renders "AED 1,250.00".
func FormatPrice(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return DefaultCurrency + " " + sign + formatThousand(whole) + "." + frac
}

// ParseMoney parses a decimal string such as "50.00" or "1,250".
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), DefaultCurrency)
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(s)
}

func formatThousand(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
