// README: Money helpers; amounts are persisted as decimal text with two fraction digits.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney reads a stored amount. An empty string is a zero amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// FormatMoney renders an amount the way it is stored and printed: "1234.50".
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
