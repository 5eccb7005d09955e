package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "£0.00"},
		{12.5, "£12.50"},
		{1234.567, "£1,234.57"},
		{-1234567.891, "-£1,234,567.89"},
		{-0.001, "£0.00"},
	}

	for _, tt := range tests {
		if got := Currency(tt.input); got != tt.expected {
			t.Errorf("Currency(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestCurrencyWithSymbol(t *testing.T) {
	if got := CurrencyWithSymbol(-42, "$"); got != "-$42.00" {
		t.Errorf("CurrencyWithSymbol(-42, $) = %q", got)
	}
}

func TestNumericCurrency(t *testing.T) {
	if got := NumericCurrency(-9876.5); got != "-9,876.50" {
		t.Errorf("NumericCurrency(-9876.5) = %q", got)
	}
	if got := NumericCurrency(999); got != "999.00" {
		t.Errorf("NumericCurrency(999) = %q", got)
	}
}
