package optimization

import (
	"testing"
	"time"

	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

func TestTargetNormalize(t *testing.T) {
	target := Target{Months: 6, Date: "  2026-06 "}
	target.Normalize()

	if target.Date != "2026-06" {
		t.Errorf("expected trimmed date, got %q", target.Date)
	}
	if target.Tolerance != constants.SolverTolerance || target.MaxIterations != constants.SolverMaxIterations {
		t.Errorf("expected solver defaults, got %+v", target)
	}

	custom := Target{Tolerance: 0.5, MaxIterations: 10}
	custom.Normalize()
	if custom.Tolerance != 0.5 || custom.MaxIterations != 10 {
		t.Errorf("expected explicit settings to survive, got %+v", custom)
	}

	var missing *Target
	missing.Normalize()
}

func TestTargetResolve(t *testing.T) {
	anchor := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		target   Target
		expected int
		wantErr  bool
	}{
		{name: "months only", target: Target{Months: 9}, expected: 9},
		{name: "date wins", target: Target{Months: 9, Date: "2026-06"}, expected: 6},
		{name: "anchor month is one month away", target: Target{Date: "2026-01"}, expected: 1},
		{name: "next year", target: Target{Date: "2027-01"}, expected: 13},
		{name: "past date", target: Target{Date: "2025-12"}, expected: 0},
		{name: "bad date", target: Target{Date: "June"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := tt.target
			err := target.Resolve(anchor)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if target.Months != tt.expected {
				t.Errorf("Months = %d, expected %d", target.Months, tt.expected)
			}
		})
	}
}

func TestTargetValidate(t *testing.T) {
	valid := Target{Months: 1}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected one month to be valid, got %v", err)
	}

	for _, months := range []int{0, -3} {
		target := Target{Months: months}
		if err := target.Validate(); err == nil {
			t.Errorf("expected %d months to be rejected", months)
		}
	}

	var missing *Target
	if err := missing.Validate(); err == nil {
		t.Error("expected nil target to be rejected")
	}
}
