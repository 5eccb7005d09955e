// Package mathutil provides money arithmetic helpers shared by the engine and
// its presentation layers.
package mathutil

import (
	"math"

	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// CeilCents rounds a value up to the next whole cent. Tiny float noise below a
// thousandth of a cent is absorbed rather than bumping the value a full cent.
func CeilCents(val float64) float64 {
	scaled := val * constants.DecimalPrecision
	if rounded := math.Round(scaled); math.Abs(scaled-rounded) < 1e-6 {
		return rounded / constants.DecimalPrecision
	}
	return math.Ceil(scaled) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// NonNegative clamps a value at zero.
func NonNegative(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// MonthlyRate converts an annual percentage rate into the monthly fraction
// charged on a balance, e.g. 12 -> 0.01.
func MonthlyRate(annualPercent float64) float64 {
	return (annualPercent / constants.PercentageMultiplier) / constants.MonthsPerYear
}
