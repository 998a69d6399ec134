package utils

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const NotAvailable = "N/A"

var enPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a USD amount as "$1,234.50" or "-$2.00". A nil value renders N/A.
// Rounding starts from the shortest decimal form of the value; negative inputs keep
// their sign even when they round to zero.
func FormatCurrency(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	d := decimal.NewFromFloat(*value).Round(2).Abs()
	sign := ""
	if math.Signbit(*value) {
		sign = "-"
	}
	return sign + "$" + enPrinter.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// FormatPercent renders the value with exactly two decimals and a % suffix.
func FormatPercent(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return FormatFixed2(*value) + "%"
}

// FormatFixed2 renders the value with exactly two decimals. The exact binary value is
// rounded, so 1.005 (stored as 1.00499...) renders 1.00. Ties round away from zero and a
// negative value that rounds to zero renders -0.00.
func FormatFixed2(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NotAvailable
	}
	exact := decimal.RequireFromString(new(big.Float).SetFloat64(value).Text('f', 1074))
	out := exact.Abs().StringFixed(2)
	if value < 0 {
		out = "-" + out
	}
	return out
}
