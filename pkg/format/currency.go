// Package format renders money and rates for people.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

// Currency returns an amount with the default currency symbol and thousands
// separators (e.g., "-£1,234.56").
func Currency(amount float64) string {
	return CurrencyWithSymbol(amount, constants.DefaultCurrencySymbol)
}

// CurrencyWithSymbol is Currency with a caller-chosen symbol.
func CurrencyWithSymbol(amount float64, symbol string) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + symbol + formatted
	}
	return symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		sign = "-"
	}
	return sign + formatted
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
