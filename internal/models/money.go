package models

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyGlyph prefixes every rendered amount.
const CurrencyGlyph = "৳"

var moneyPrinter = message.NewPrinter(language.English)

// Round2 rounds to whole cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatMoney renders v with exactly two decimals and the currency glyph, e.g. ৳1,234.50.
func FormatMoney(v float64) string {
	return CurrencyGlyph + moneyPrinter.Sprintf("%.2f", Round2(v))
}
