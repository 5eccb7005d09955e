package household

import (
	"github.com/google/uuid"
)

// Totals are the headline monthly figures of a snapshot.
type Totals struct {
	Debt              float64 `json:"debt"`
	MonthlyIncome     float64 `json:"monthlyIncome"`
	MonthlyRecurring  float64 `json:"monthlyRecurring"`
	Subscriptions     float64 `json:"subscriptions"`
	MinimumPayments   float64 `json:"minimumPayments"`
	LentOutstanding   float64 `json:"lentOutstanding"`
	MonthlyRepayments float64 `json:"monthlyRepayments"`
	YearlyEvents      float64 `json:"yearlyEvents"`
}

// ComputeTotals sums the snapshot into its headline figures.
func ComputeTotals(s Snapshot) Totals {
	var t Totals
	for _, d := range s.Debts {
		t.Debt += d.Balance
		t.MinimumPayments += d.MinimumPayment
	}
	t.MonthlyIncome = s.MonthlyIncome()
	t.MonthlyRecurring = s.RecurringExpenses()
	t.Subscriptions = s.Subscriptions()
	for _, l := range s.LentMoney {
		t.LentOutstanding += l.RemainingBalance
		if l.RemainingBalance > 0 {
			t.MonthlyRepayments += min(l.RemainingBalance, l.DefaultRepayment)
		}
	}
	for _, e := range s.SpecialEvents {
		t.YearlyEvents += e.Budget
	}
	return t
}

// TotalDebt sums all debt balances.
func (s Snapshot) TotalDebt() float64 {
	total := 0.0
	for _, d := range s.Debts {
		total += d.Balance
	}
	return total
}

// MonthlyIncome sums every income stream.
func (s Snapshot) MonthlyIncome() float64 {
	total := 0.0
	for _, i := range s.Income {
		total += i.Amount
	}
	return total
}

// RecurringExpenses sums every recurring expense, subscriptions included.
func (s Snapshot) RecurringExpenses() float64 {
	total := 0.0
	for _, e := range s.Expenses {
		if e.IsRecurring {
			total += e.Amount
		}
	}
	return total
}

// Subscriptions sums the recurring expenses flagged as subscriptions.
func (s Snapshot) Subscriptions() float64 {
	total := 0.0
	for _, e := range s.Expenses {
		if e.IsRecurring && e.IsSubscription {
			total += e.Amount
		}
	}
	return total
}

// EventBudget sums the special events falling in a calendar month (0-11).
func (s Snapshot) EventBudget(calendarMonth int) float64 {
	total := 0.0
	for _, e := range s.SpecialEvents {
		if e.Month == calendarMonth {
			total += e.Budget
		}
	}
	return total
}

// EnsureIDs assigns a random id to every entry that lacks one and returns how
// many were assigned.
func (s *Snapshot) EnsureIDs() int {
	assigned := 0
	next := func(id *string) {
		if *id == "" {
			*id = uuid.NewString()
			assigned++
		}
	}
	for i := range s.Users {
		next(&s.Users[i].ID)
	}
	for i := range s.Debts {
		next(&s.Debts[i].ID)
	}
	for i := range s.LentMoney {
		next(&s.LentMoney[i].ID)
	}
	for i := range s.Income {
		next(&s.Income[i].ID)
	}
	for i := range s.Expenses {
		next(&s.Expenses[i].ID)
	}
	for i := range s.SpecialEvents {
		next(&s.SpecialEvents[i].ID)
	}
	for i := range s.Goals {
		next(&s.Goals[i].ID)
	}
	return assigned
}
