// Package core holds the finance domain model shared by every layer.
//
// This file contains amount parsing and display formatting. Amounts are
// decimal values (never floats) so API round-trips preserve precision.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is the fixed display currency for user-facing amounts.
const CurrencyPrefix = "NT$"

// ParseAmount converts a decimal string into a positive amount.
// Both dot and comma decimal separators are accepted; at most two
// fractional digits are kept, rounding half up on the third.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount as the user sees it: currency prefix
// plus thousands-grouped digits, e.g. NT$1,234 or NT$1,234.50.
// Identical input always yields an identical string.
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	s := d.String()
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(CurrencyPrefix)
	b.WriteString(groupThousands(intPart))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
