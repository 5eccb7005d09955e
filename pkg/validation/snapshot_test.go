package validation

import (
	"strings"
	"testing"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
)

func validSnapshot() household.Snapshot {
	return household.Snapshot{
		Debts: []household.Debt{
			{ID: "d1", Name: "Visa", Balance: 1000, InterestRate: 20, MinimumPayment: 50, CanOverpay: true},
		},
		LentMoney:     []household.LentMoney{{ID: "l1", Recipient: "Sam", RemainingBalance: 200, DefaultRepayment: 50}},
		Income:        []household.Income{{ID: "i1", Source: "Salary", Amount: 2000}},
		Expenses:      []household.Expense{{ID: "e1", Description: "Rent", Amount: 800, IsRecurring: true}},
		SpecialEvents: []household.SpecialEvent{{ID: "s1", Name: "Christmas", Month: 11, Budget: 300}},
		LuxuryBudget:  100,
		SavingsBuffer: 10,
		Strategy:      "Avalanche (Save Interest)",
	}
}

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*household.Snapshot)
		expectErr string
	}{
		{name: "valid snapshot", mutate: func(*household.Snapshot) {}},
		{name: "empty snapshot", mutate: func(s *household.Snapshot) { *s = household.Snapshot{} }},
		{name: "negative balance", mutate: func(s *household.Snapshot) { s.Debts[0].Balance = -1 }, expectErr: "Debt 'Visa' balance"},
		{name: "negative rate", mutate: func(s *household.Snapshot) { s.Debts[0].InterestRate = -2 }, expectErr: "interest rate"},
		{name: "negative penalty", mutate: func(s *household.Snapshot) { s.Debts[0].OverpaymentPenalty = -5 }, expectErr: "overpayment penalty"},
		{name: "negative repayment", mutate: func(s *household.Snapshot) { s.LentMoney[0].DefaultRepayment = -1 }, expectErr: "default repayment"},
		{name: "negative income", mutate: func(s *household.Snapshot) { s.Income[0].Amount = -10 }, expectErr: "Income 'Salary'"},
		{name: "event month too large", mutate: func(s *household.Snapshot) { s.SpecialEvents[0].Month = 12 }, expectErr: "between 0 and 11"},
		{name: "savings buffer above 100", mutate: func(s *household.Snapshot) { s.SavingsBuffer = 120 }, expectErr: "Savings buffer"},
		{name: "negative luxury", mutate: func(s *household.Snapshot) { s.LuxuryBudget = -1 }, expectErr: "Luxury budget"},
		{name: "unknown strategy", mutate: func(s *household.Snapshot) { s.Strategy = "hybrid" }, expectErr: "Strategy \"hybrid\""},
		{name: "duplicate ids", mutate: func(s *household.Snapshot) { s.Income[0].ID = "d1" }, expectErr: "duplicates a debt id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			tt.mutate(&s)
			err := ValidateSnapshot(s)

			if tt.expectErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.expectErr)
			}
			if !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.expectErr)
			}
		})
	}
}

func TestValidateSnapshotListsEveryProblem(t *testing.T) {
	s := validSnapshot()
	s.Debts[0].Balance = -1
	s.SavingsBuffer = -5
	s.SpecialEvents[0].Month = -1

	if problems := SnapshotProblems(s); len(problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(problems), problems)
	}
}

func TestValidateOptions(t *testing.T) {
	if err := ValidateOptions(payoff.DefaultOptions()); err != nil {
		t.Errorf("default options rejected: %v", err)
	}
	if err := ValidateOptions(payoff.Options{MonthlyOverpayment: -1}); err == nil {
		t.Error("expected error for negative overpayment")
	}
	if err := ValidateOptions(payoff.Options{MaxMonths: -1}); err == nil {
		t.Error("expected error for negative max months")
	}
}

func TestSnapshotWarnings(t *testing.T) {
	if warnings := SnapshotWarnings(validSnapshot(), payoff.DefaultOptions()); len(warnings) != 0 {
		t.Errorf("expected no warnings for healthy snapshot, got %v", warnings)
	}

	s := validSnapshot()
	s.Debts[0].MinimumPayment = 5
	s.LentMoney[0].DefaultRepayment = 0
	s.Income[0].Amount = 900

	warnings := SnapshotWarnings(s, payoff.DefaultOptions())
	expected := []string{"does not cover monthly interest", "no default repayment", "does not cover minimum payments"}
	if len(warnings) != len(expected) {
		t.Fatalf("expected %d warnings, got %v", len(expected), warnings)
	}
	for i, fragment := range expected {
		if !strings.Contains(warnings[i], fragment) {
			t.Errorf("warning %d = %q, expected to mention %q", i, warnings[i], fragment)
		}
	}

	opts := payoff.DefaultOptions()
	opts.RespectLuxuryBudget = false
	if got := SnapshotWarnings(s, opts); len(got) != 2 {
		t.Errorf("ignoring luxury should free enough for minimums, got %v", got)
	}
}
