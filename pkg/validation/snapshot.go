package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/mathutil"
)

// SnapshotProblems lists every hard violation in a household snapshot. An
// empty result means the snapshot is safe to project.
func SnapshotProblems(s household.Snapshot) []string {
	var problems []string
	seen := make(map[string]string)
	checkID := func(kind, id string) {
		if id == "" {
			return
		}
		if previous, ok := seen[id]; ok {
			problems = append(problems, fmt.Sprintf("%s id %q duplicates a %s id", kind, id, previous))
			return
		}
		seen[id] = kind
	}
	negative := func(label string, value float64) {
		if value < 0 {
			problems = append(problems, fmt.Sprintf("%s cannot be negative (%.2f)", label, value))
		}
	}

	for _, d := range s.Debts {
		label := fmt.Sprintf("Debt '%s'", d.Name)
		checkID("debt", d.ID)
		negative(label+" balance", d.Balance)
		negative(label+" interest rate", d.InterestRate)
		negative(label+" minimum payment", d.MinimumPayment)
		negative(label+" overpayment penalty", d.OverpaymentPenalty)
	}
	for _, l := range s.LentMoney {
		label := fmt.Sprintf("Lent money to '%s'", l.Recipient)
		checkID("lent money", l.ID)
		negative(label+" remaining balance", l.RemainingBalance)
		negative(label+" default repayment", l.DefaultRepayment)
	}
	for _, i := range s.Income {
		checkID("income", i.ID)
		negative(fmt.Sprintf("Income '%s' amount", i.Source), i.Amount)
	}
	for _, e := range s.Expenses {
		checkID("expense", e.ID)
		negative(fmt.Sprintf("Expense '%s' amount", e.Description), e.Amount)
	}
	for _, e := range s.SpecialEvents {
		checkID("special event", e.ID)
		if e.Month < 0 || e.Month > 11 {
			problems = append(problems, fmt.Sprintf("Special event '%s' month must be between 0 and 11, got %d", e.Name, e.Month))
		}
		negative(fmt.Sprintf("Special event '%s' budget", e.Name), e.Budget)
	}

	negative("Luxury budget", s.LuxuryBudget)
	if s.SavingsBuffer < 0 || s.SavingsBuffer > 100 {
		problems = append(problems, fmt.Sprintf("Savings buffer must be between 0 and 100 percent, got %.2f", s.SavingsBuffer))
	}
	if _, ok := household.ParseStrategy(string(s.Strategy)); !ok {
		problems = append(problems, fmt.Sprintf("Strategy %q is not supported, expected avalanche or snowball", s.Strategy))
	}
	return problems
}

// ValidateSnapshot returns an error describing every violation in s, or nil.
func ValidateSnapshot(s household.Snapshot) error {
	problems := SnapshotProblems(s)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid household snapshot: %s", strings.Join(problems, "; "))
}

// ValidateOptions rejects option values the projection cannot honour.
func ValidateOptions(opts payoff.Options) error {
	if opts.MonthlyOverpayment < 0 {
		return fmt.Errorf("monthly overpayment cannot be negative (%.2f)", opts.MonthlyOverpayment)
	}
	if opts.MaxMonths < 0 {
		return fmt.Errorf("max months cannot be negative (%d)", opts.MaxMonths)
	}
	return nil
}

// SnapshotWarnings reports soft issues that produce a valid but probably
// unintended schedule.
func SnapshotWarnings(s household.Snapshot, opts payoff.Options) []string {
	var warnings []string

	for _, d := range s.Debts {
		if d.Balance <= 0 {
			continue
		}
		interest := d.Balance * mathutil.MonthlyRate(d.InterestRate)
		if d.MinimumPayment < interest {
			warnings = append(warnings, fmt.Sprintf(
				"Debt '%s' minimum payment %.2f does not cover monthly interest %.2f - balance will grow unless overpaid",
				d.Name, d.MinimumPayment, interest))
		}
		if d.MinimumPayment <= 0 && !d.CanOverpay {
			warnings = append(warnings, fmt.Sprintf(
				"Debt '%s' has no minimum payment and does not accept overpayments - it will never be repaid", d.Name))
		}
	}
	for _, l := range s.LentMoney {
		if l.RemainingBalance > 0 && l.DefaultRepayment <= 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Lent money to '%s' has no default repayment - the projection will run to its month cap", l.Recipient))
		}
	}

	committed := s.RecurringExpenses() - s.Subscriptions()
	if opts.RespectSubscriptions {
		committed += s.Subscriptions()
	}
	if opts.RespectLuxuryBudget {
		committed += s.LuxuryBudget
	}
	minimums := 0.0
	for _, d := range s.Debts {
		if d.Balance > 0 {
			minimums += d.MinimumPayment
		}
	}
	available := s.MonthlyIncome() + opts.MonthlyOverpayment - committed
	if len(s.Debts) > 0 && available < minimums {
		warnings = append(warnings, fmt.Sprintf(
			"Monthly income after expenses (%.2f) does not cover minimum payments (%.2f) - some minimums will be underpaid",
			available, minimums))
	}
	return warnings
}
