// Package money formats peso amounts the way the counter prints them.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mexico groups thousands with commas and uses a point for decimals, the same
// separators as the English tables in x/text.
var grouping = message.NewPrinter(language.English)

// Round rounds half away from zero to centavos.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMXN renders d as "$1,234.50": currency symbol, grouped thousands and
// exactly two decimals.
func FormatMXN(d decimal.Decimal) string {
	rounded := Round(d)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	fixed := rounded.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n := decimal.RequireFromString(whole).IntPart()
	return sign + "$" + grouping.Sprintf("%d", n) + "." + frac
}

// Parse reads a user-entered amount. Currency symbols, spaces and thousands
// separators are ignored.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "", "MXN", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(cleaned)
}
