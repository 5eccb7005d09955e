package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	result := MustParseTime(DateTimeLayout, "2030-12")
	if result.Format(DateTimeLayout) != "2030-12" {
		t.Errorf("MustParseTime() = %s, expected 2030-12", result.Format(DateTimeLayout))
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateTimeLayout, "invalid-date")
}

func TestOffsetDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		months   int
		expected string
		wantErr  bool
	}{
		{name: "Add multiple years", date: "2025-01", months: 24, expected: "2027-01"},
		{name: "Cross year boundary forward", date: "2025-06", months: 8, expected: "2026-02"},
		{name: "Backwards", date: "2025-01", months: -1, expected: "2024-12"},
		{name: "Invalid date", date: "garbage", months: 1, expected: "garbage", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := OffsetDate(tt.date, DateTimeLayout, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OffsetDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result != tt.expected {
				t.Errorf("OffsetDate() = %s, expected %s", result, tt.expected)
			}
		})
	}
}

func TestMonthAtWrapsYears(t *testing.T) {
	anchor := time.Date(2025, time.November, 30, 15, 4, 5, 0, time.Local)

	tests := []struct {
		offset int
		year   int
		index  int
		label  string
	}{
		{0, 2025, 10, "November 2025"},
		{1, 2025, 11, "December 2025"},
		{2, 2026, 0, "January 2026"},
		{3, 2026, 1, "February 2026"},
		{14, 2027, 0, "January 2027"},
	}

	for _, tt := range tests {
		got := MonthAt(anchor, tt.offset)
		if got.Year != tt.year || got.Index != tt.index || got.Label != tt.label {
			t.Errorf("MonthAt(+%d) = %+v, expected %d/%d %q", tt.offset, got, tt.year, tt.index, tt.label)
		}
	}
}

func TestParseAnchor(t *testing.T) {
	anchor, err := ParseAnchor("2026-03")
	if err != nil {
		t.Fatalf("ParseAnchor returned error: %v", err)
	}
	if anchor.Year() != 2026 || anchor.Month() != time.March || anchor.Day() != 1 {
		t.Errorf("unexpected anchor %v", anchor)
	}

	empty, err := ParseAnchor("  ")
	if err != nil || !empty.IsZero() {
		t.Errorf("expected zero time for blank anchor, got %v (%v)", empty, err)
	}

	if _, err := ParseAnchor("March"); err == nil {
		t.Error("expected error for malformed anchor")
	}
}

func TestMonthsBetween(t *testing.T) {
	start := MustParseTime(DateTimeLayout, "2025-11")
	end := MustParseTime(DateTimeLayout, "2027-02")
	if got := MonthsBetween(start, end); got != 15 {
		t.Errorf("MonthsBetween = %d, expected 15", got)
	}
	if got := MonthsBetween(end, start); got != -15 {
		t.Errorf("MonthsBetween reversed = %d, expected -15", got)
	}
}
