// Package testutil provides common fixtures and lookups for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
)

// Anchor is the fixed month tests project from.
var Anchor = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// SingleDebt returns a snapshot holding one overpayable debt and enough income
// to cover the given monthly amount.
func SingleDebt(balance, rate, minimum, income float64) household.Snapshot {
	return household.Snapshot{
		Debts: []household.Debt{
			{ID: "debt-1", Name: "Card", Kind: household.KindCreditCard, Balance: balance, InterestRate: rate, MinimumPayment: minimum, CanOverpay: true},
		},
		Income:   []household.Income{{ID: "inc-1", Source: "Salary", Amount: income}},
		Strategy: household.Avalanche,
	}
}

// Household returns a realistic multi-debt snapshot with lent money, bills,
// subscriptions, a luxury budget and a December event.
func Household() household.Snapshot {
	return household.Snapshot{
		Users: []household.User{{ID: "user-1", Name: "Alex", Role: "owner"}},
		Debts: []household.Debt{
			{ID: "visa", Name: "Visa", Kind: household.KindCreditCard, Balance: 2400, InterestRate: 22.9, MinimumPayment: 75, CanOverpay: true},
			{ID: "car", Name: "Car Finance", Kind: household.KindFinance, Balance: 6000, InterestRate: 7.5, MinimumPayment: 210, CanOverpay: true, OverpaymentPenalty: 15},
			{ID: "store", Name: "Store Card", Kind: household.KindCreditCard, Balance: 450, InterestRate: 29.9, MinimumPayment: 25, CanOverpay: true},
			{ID: "loan", Name: "Bank Loan", Kind: household.KindBankLoan, Balance: 3000, InterestRate: 5.9, MinimumPayment: 120, CanOverpay: false},
		},
		LentMoney: []household.LentMoney{
			{ID: "lent-1", Recipient: "Sam", Purpose: "Deposit", TotalAmount: 900, RemainingBalance: 600, DefaultRepayment: 100},
		},
		Income: []household.Income{
			{ID: "inc-1", Source: "Salary", Amount: 2600, UserID: "user-1"},
			{ID: "inc-2", Source: "Side work", Amount: 300},
		},
		Expenses: []household.Expense{
			{ID: "rent", Category: "Housing", Description: "Rent", Amount: 950, IsRecurring: true},
			{ID: "bills", Category: "Utilities", Description: "Energy", Amount: 140, IsRecurring: true},
			{ID: "music", Category: "Entertainment", Description: "Music", Amount: 11, IsRecurring: true, IsSubscription: true},
			{ID: "tv", Category: "Entertainment", Description: "Streaming", Amount: 15, IsRecurring: true, IsSubscription: true},
			{ID: "groceries", Category: "Food", Description: "Weekly shop", Amount: 85, Date: "2026-01-04"},
		},
		SpecialEvents: []household.SpecialEvent{
			{ID: "xmas", Name: "Christmas", Month: 11, Budget: 400},
		},
		Goals:         []household.Goal{{ID: "goal-1", Name: "Emergency fund", Type: "emergency", TargetAmount: 3000}},
		LuxuryBudget:  200,
		SavingsBuffer: 10,
		Strategy:      household.Avalanche,
	}
}

// FindDebtMonth returns the breakdown entry for a debt within a month, or nil.
func FindDebtMonth(month payoff.PayoffMonth, debtID string) *payoff.DebtMonth {
	for i := range month.Debts {
		if month.Debts[i].DebtID == debtID {
			return &month.Debts[i]
		}
	}
	return nil
}

// ClearedAt returns the index of the month a debt was first reported cleared,
// or -1 if it never was.
func ClearedAt(schedule payoff.Schedule, debtID string) int {
	for i, month := range schedule {
		if entry := FindDebtMonth(month, debtID); entry != nil && entry.NewlyCleared {
			return i
		}
	}
	return -1
}
