// Package money formats currency values for report summaries: fixed symbol,
// thousands separators, two decimals. Raw numerics always travel alongside
// the formatted strings, so nothing downstream parses these back.
package money

import (
	"fmt"
	"strings"
)

// DefaultSymbol is used when no currency symbol is configured.
const DefaultSymbol = "₹"

// Format renders an amount like "₹100,000.00".
func Format(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return symbol + group(fmt.Sprintf("%.2f", amount))
}

// FormatSigned renders with an explicit sign, like "₹+12,500.00".
func FormatSigned(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	sign := "+"
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return symbol + sign + group(fmt.Sprintf("%.2f", amount))
}

// Percent renders a ratio as a percentage with one decimal, like "+12.5%".
func Percent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// group inserts a comma every three digits in the integer part of a
// formatted decimal like "1234567.89".
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
